package encoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEmbeddingsServer serves /v1/embeddings, answering each input with a vector whose first element is its index.
func newEmbeddingsServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
			return
		}

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(i), 1},
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 3, "total_tokens": 3},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIEncoder_Encode(t *testing.T) {
	srv := newEmbeddingsServer(t, http.StatusOK)
	enc := NewOpenAIEncoder(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1"})

	vectors, err := enc.Encode(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {2, 1}}, vectors)
	assert.Equal(t, "openai/"+DefaultOpenAIModel, enc.Name())
}

func TestOpenAIEncoder_EmptyInput(t *testing.T) {
	enc := NewOpenAIEncoder(OpenAIConfig{APIKey: "test", BaseURL: "http://127.0.0.1:1/v1"})
	vectors, err := enc.Encode(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestOpenAIEncoder_APIError(t *testing.T) {
	srv := newEmbeddingsServer(t, http.StatusServiceUnavailable)
	enc := NewOpenAIEncoder(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "custom"})

	_, err := enc.Encode(context.Background(), []string{"a"})
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "openai/custom", encErr.Provider)
	assert.Contains(t, err.Error(), "503")
}

func TestSelect_Lexical(t *testing.T) {
	enc := Select(context.Background(), Config{}, nil)
	assert.Equal(t, LexicalName, enc.Name())

	enc = Select(context.Background(), Config{Provider: ProviderLexical}, nil)
	assert.Equal(t, LexicalName, enc.Name())
}

func TestSelect_FallsBackOnUnknownProvider(t *testing.T) {
	enc := Select(context.Background(), Config{Provider: "word2vec"}, nil)
	assert.Equal(t, LexicalName, enc.Name())
}

func TestSelect_FallsBackWithoutCredentials(t *testing.T) {
	assert.Equal(t, LexicalName, Select(context.Background(), Config{Provider: ProviderOpenAI}, nil).Name())
	assert.Equal(t, LexicalName, Select(context.Background(), Config{Provider: ProviderGemini}, nil).Name())
}

func TestSelect_FallsBackWhenProbeFails(t *testing.T) {
	srv := newEmbeddingsServer(t, http.StatusInternalServerError)
	enc := Select(context.Background(), Config{
		Provider:     ProviderOpenAI,
		APIKey:       "test",
		BaseURL:      srv.URL + "/v1",
		ProbeTimeout: 2 * time.Second,
	}, nil)
	assert.Equal(t, LexicalName, enc.Name())
}

func TestSelect_UsesSemanticWhenProbeSucceeds(t *testing.T) {
	srv := newEmbeddingsServer(t, http.StatusOK)
	enc := Select(context.Background(), Config{
		Provider: ProviderOpenAI,
		APIKey:   "test",
		BaseURL:  srv.URL + "/v1",
		Model:    "text-embedding-3-large",
	}, nil)
	assert.Equal(t, "openai/text-embedding-3-large", enc.Name())
}

func TestProbe_RejectsEmptyVector(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{"probe": {}}}
	err := Probe(context.Background(), enc, time.Second)
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr)
}
