package encoder

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const cacheKeyPrefix = "docsight:emb:"

// ErrCacheMiss is returned by a store when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// store is the key-value contract the cache needs.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedEncoder caches vectors of a semantic encoder in a key-value store.
// Store failures are logged and treated as misses.
type CachedEncoder struct {
	inner      Encoder
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCachedEncoder wraps inner with a cache. cacheTotal takes a "result" label of hit or miss and may be nil.
func NewCachedEncoder(inner Encoder, s store, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *CachedEncoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEncoder{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Name implements Encoder.
func (c *CachedEncoder) Name() string {
	return c.inner.Name()
}

// Encode serves cached vectors and encodes the misses in one inner call.
func (c *CachedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		keys[i] = c.cacheKey(text)
		if vec, ok := c.getFromCache(ctx, keys[i]); ok {
			c.incCache("hit")
			vectors[i] = vec
			continue
		}
		c.incCache("miss")
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return vectors, nil
	}

	encoded, err := c.inner.Encode(ctx, missTexts)
	if err != nil {
		return nil, fmt.Errorf("encode cache misses: %w", err)
	}
	if len(encoded) != len(missTexts) {
		return nil, &EncodingError{
			Provider: c.inner.Name(),
			Cause:    fmt.Errorf("expected %d vectors, got %d", len(missTexts), len(encoded)),
		}
	}

	for j, idx := range missIdx {
		vectors[idx] = encoded[j]
		c.putToCache(ctx, keys[idx], encoded[j])
	}
	return vectors, nil
}

// Similarity implements Encoder.
func (c *CachedEncoder) Similarity(query []float32, docs [][]float32) []float64 {
	return c.inner.Similarity(query, docs)
}

// Close closes the inner encoder and store when they hold resources.
func (c *CachedEncoder) Close() error {
	var errs []error
	if closer, ok := c.inner.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if closer, ok := c.store.(interface{ Close() }); ok {
		closer.Close()
	}
	return errors.Join(errs...)
}

func (c *CachedEncoder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey fingerprints the model name together with the text so models never share entries.
func (c *CachedEncoder) cacheKey(text string) string {
	h := blake2b.Sum256([]byte(c.inner.Name() + "\x00" + text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedEncoder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *CachedEncoder) putToCache(ctx context.Context, key string, vec []float32) {
	if err := c.store.Set(ctx, key, vectorToCacheBytes(vec)); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
