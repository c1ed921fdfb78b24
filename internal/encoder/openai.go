package encoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/metrics"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "text-embedding-3-small"

// OpenAIConfig holds settings for an OpenAI-compatible embeddings endpoint.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Logger     *zap.Logger
}

// OpenAIEncoder calls an OpenAI-compatible embeddings API.
type OpenAIEncoder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// NewOpenAIEncoder creates an encoder for the OpenAI API or any compatible provider.
func NewOpenAIEncoder(cfg OpenAIConfig) *OpenAIEncoder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIEncoder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(model),
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

// Name implements Encoder.
func (e *OpenAIEncoder) Name() string {
	return "openai/" + string(e.model)
}

// Encode sends all texts in one embeddings request.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	model := string(e.model)
	if err != nil {
		metrics.EncoderRequestsTotal.WithLabelValues("openai", model, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues("openai", model, "api_error").Inc()
		return nil, &EncodingError{Provider: e.Name(), Cause: parseAPIError(err)}
	}

	if len(resp.Data) != len(texts) {
		metrics.EncoderRequestsTotal.WithLabelValues("openai", model, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues("openai", model, "short_response").Inc()
		return nil, &EncodingError{
			Provider: e.Name(),
			Cause:    fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)),
		}
	}

	metrics.EncoderRequestsTotal.WithLabelValues("openai", model, "success").Inc()
	metrics.EncoderRequestDuration.WithLabelValues("openai", model).Observe(duration.Seconds())
	e.logger.Debug("encoded batch",
		zap.String("model", model),
		zap.Int("texts", len(texts)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration))

	vectors := make([][]float32, len(texts))
	for i, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(vectors) {
			idx = i
		}
		vectors[idx] = d.Embedding
	}
	return vectors, nil
}

// Similarity implements Encoder.
func (e *OpenAIEncoder) Similarity(query []float32, docs [][]float32) []float64 {
	return similarities(query, docs)
}

// HealthCheck verifies API availability via ListModels.
func (e *OpenAIEncoder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a readable message from an API error response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("embedding API error %d: %s", reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("embedding API error %d: %w", reqErr.HTTPStatusCode, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("embedding request failed: %w", err)
}

// extractDetail reads the "detail" field some compatible providers put in error bodies.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
