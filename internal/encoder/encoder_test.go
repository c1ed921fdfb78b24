package encoder

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEncoder returns fixed vectors and counts calls.
type fakeEncoder struct {
	name    string
	vectors map[string][]float32
	err     error
	calls   int
	seen    [][]string
}

func (f *fakeEncoder) Name() string {
	if f.name == "" {
		return "fake/model"
	}
	return f.name
}

func (f *fakeEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.seen = append(f.seen, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

func (f *fakeEncoder) Similarity(query []float32, docs [][]float32) []float64 {
	return similarities(query, docs)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestScore(t *testing.T) {
	enc := &fakeEncoder{vectors: map[string][]float32{
		"query": {1, 0},
		"same":  {2, 0},
		"other": {0, 3},
	}}

	scores, err := Score(context.Background(), enc, "query", []string{"same", "other"})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.InDelta(t, 1.0, scores[0], 1e-6)
	assert.InDelta(t, 0.0, scores[1], 1e-6)
	assert.Equal(t, []string{"query", "same", "other"}, enc.seen[0])
}

func TestScore_NoDocsSkipsEncoder(t *testing.T) {
	enc := &fakeEncoder{}
	scores, err := Score(context.Background(), enc, "query", nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
	assert.Equal(t, 0, enc.calls)
}

func TestScore_PropagatesError(t *testing.T) {
	enc := &fakeEncoder{err: &EncodingError{Provider: "fake", Cause: errors.New("down")}}
	_, err := Score(context.Background(), enc, "query", []string{"doc"})

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "fake", encErr.Provider)
	assert.Contains(t, err.Error(), "down")
}

func TestLexicalEncoder(t *testing.T) {
	enc := NewLexicalEncoder()
	vectors, err := enc.Encode(context.Background(), []string{
		"plan a trip for friends",
		"Trip planning for a group of friends",
		"protein sequence alignment",
		"the and of",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 4)

	for _, v := range vectors[:3] {
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
	}

	scores := enc.Similarity(vectors[0], vectors[1:])
	assert.Greater(t, scores[0], 0.0)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
	assert.InDelta(t, 0.0, scores[2], 1e-9, "stop-word-only text encodes to a zero vector")
}

func TestLexicalEncoder_Deterministic(t *testing.T) {
	enc := NewLexicalEncoder()
	texts := []string{"coastal adventures", "beach hotels and coastal towns", "references"}
	first, err := enc.Encode(context.Background(), texts)
	require.NoError(t, err)
	second, err := enc.Encode(context.Background(), texts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLexicalEncoder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLexicalEncoder().Encode(ctx, []string{"text"})

	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodingError(t *testing.T) {
	cause := errors.New("timeout")
	err := &EncodingError{Provider: "openai/x", Cause: cause}
	assert.Equal(t, "encoder openai/x: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
}
