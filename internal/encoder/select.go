package encoder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/metrics"
)

// Providers accepted by Select.
const (
	ProviderLexical = "lexical"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

const defaultProbeTimeout = 10 * time.Second

// Config selects and configures the encoder.
type Config struct {
	Provider     string
	Model        string
	BaseURL      string
	APIKey       string
	Dimensions   int
	ProbeTimeout time.Duration
	Cache        RedisConfig
}

// Select builds the configured encoder and probes it once.
// Any failure to build or probe a semantic encoder yields the lexical encoder instead.
// The result is meant to be created once per process and shared.
func Select(ctx context.Context, cfg Config, logger *zap.Logger) Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Provider == "" || cfg.Provider == ProviderLexical {
		return NewLexicalEncoder()
	}

	semantic, err := newSemantic(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Semantic encoder unavailable, using lexical encoder",
			zap.String("provider", cfg.Provider), zap.Error(err))
		return NewLexicalEncoder()
	}

	if err := Probe(ctx, semantic, cfg.ProbeTimeout); err != nil {
		logger.Warn("Semantic encoder probe failed, using lexical encoder",
			zap.String("encoder", semantic.Name()), zap.Error(err))
		closeEncoder(semantic)
		return NewLexicalEncoder()
	}
	logger.Info("Semantic encoder ready", zap.String("encoder", semantic.Name()))

	if len(cfg.Cache.Addrs) == 0 {
		return semantic
	}
	store, err := NewRedisStore(cfg.Cache)
	if err != nil {
		logger.Warn("Embedding cache disabled", zap.Error(err))
		return semantic
	}
	return NewCachedEncoder(semantic, store, metrics.EmbeddingCacheTotal, logger)
}

// Probe encodes a single short text and checks that a non-empty vector comes back.
func Probe(ctx context.Context, enc Encoder, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	vectors, err := enc.Encode(probeCtx, []string{"probe"})
	if err != nil {
		return err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return &EncodingError{Provider: enc.Name(), Cause: fmt.Errorf("probe returned no vector")}
	}
	return nil
}

func newSemantic(ctx context.Context, cfg Config, logger *zap.Logger) (Encoder, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("API key is required")
		}
		return NewOpenAIEncoder(OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Logger:     logger,
		}), nil
	case ProviderGemini:
		return NewGeminiEncoder(ctx, GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Logger: logger,
		})
	default:
		return nil, fmt.Errorf("unknown encoder provider %q", cfg.Provider)
	}
}

// Close releases resources held by enc, if any.
func Close(enc Encoder) error {
	if closer, ok := enc.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func closeEncoder(enc Encoder) {
	_ = Close(enc)
}
