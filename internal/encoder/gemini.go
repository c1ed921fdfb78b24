package encoder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jonathan/docsight/internal/metrics"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "text-embedding-004"

// geminiBatchLimit is the most contents accepted by one BatchEmbedContents call.
const geminiBatchLimit = 100

// GeminiConfig holds settings for the Gemini embeddings API.
type GeminiConfig struct {
	APIKey string
	Model  string
	Logger *zap.Logger
}

// GeminiEncoder calls the Gemini batch embeddings API.
type GeminiEncoder struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	modelName string
	logger    *zap.Logger
}

// NewGeminiEncoder creates a Gemini encoder. Close releases the underlying client.
func NewGeminiEncoder(ctx context.Context, cfg GeminiConfig) (*GeminiEncoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiEncoder{
		client:    client,
		model:     client.EmbeddingModel(modelName),
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Name implements Encoder.
func (g *GeminiEncoder) Name() string {
	return "gemini/" + g.modelName
}

// Encode embeds texts in batches of at most geminiBatchLimit.
func (g *GeminiEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += geminiBatchLimit {
		end := min(start+geminiBatchLimit, len(texts))
		batch, err := g.encodeBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (g *GeminiEncoder) encodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batch := g.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	start := time.Now()
	resp, err := g.model.BatchEmbedContents(ctx, batch)
	duration := time.Since(start)

	if err != nil {
		metrics.EncoderRequestsTotal.WithLabelValues("gemini", g.modelName, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues("gemini", g.modelName, "api_error").Inc()
		return nil, &EncodingError{Provider: g.Name(), Cause: fmt.Errorf("batch embed contents: %w", err)}
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		metrics.EncoderRequestsTotal.WithLabelValues("gemini", g.modelName, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues("gemini", g.modelName, "short_response").Inc()
		return nil, &EncodingError{
			Provider: g.Name(),
			Cause:    fmt.Errorf("expected %d embeddings, got %d", len(texts), got),
		}
	}

	metrics.EncoderRequestsTotal.WithLabelValues("gemini", g.modelName, "success").Inc()
	metrics.EncoderRequestDuration.WithLabelValues("gemini", g.modelName).Observe(duration.Seconds())
	g.logger.Debug("encoded batch",
		zap.String("model", g.modelName),
		zap.Int("texts", len(texts)),
		zap.Duration("duration", duration))

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb != nil {
			vectors[i] = emb.Values
		}
	}
	return vectors, nil
}

// Similarity implements Encoder.
func (g *GeminiEncoder) Similarity(query []float32, docs [][]float32) []float64 {
	return similarities(query, docs)
}

// Close releases the Gemini client.
func (g *GeminiEncoder) Close() error {
	return g.client.Close()
}
