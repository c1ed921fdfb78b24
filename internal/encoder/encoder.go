// Package encoder turns text into vectors for semantic similarity scoring.
//
// Two strategies share one contract: semantic encoders backed by an embeddings API
// and a lexical TF-IDF encoder used when no semantic model is reachable.
package encoder

import (
	"context"
	"fmt"
	"math"
)

// Encoder encodes texts into vectors and compares them.
// Implementations must be safe for concurrent use.
type Encoder interface {
	// Name identifies the encoder and its model, e.g. "openai/text-embedding-3-small".
	Name() string
	// Encode returns one vector per input text, in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	// Similarity returns the cosine similarity between query and each of docs.
	Similarity(query []float32, docs [][]float32) []float64
}

// EncodingError reports that an encoder could not produce vectors.
type EncodingError struct {
	Provider string
	Cause    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoder %s: %v", e.Provider, e.Cause)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// similarities applies Cosine between query and every doc.
func similarities(query []float32, docs [][]float32) []float64 {
	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = Cosine(query, d)
	}
	return scores
}

// Score encodes query followed by docs in one call and returns the query's similarity to each doc.
func Score(ctx context.Context, enc Encoder, query string, docs []string) ([]float64, error) {
	if len(docs) == 0 {
		return []float64{}, nil
	}
	texts := make([]string, 0, len(docs)+1)
	texts = append(texts, query)
	texts = append(texts, docs...)

	vectors, err := enc.Encode(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, &EncodingError{
			Provider: enc.Name(),
			Cause:    fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors)),
		}
	}
	return enc.Similarity(vectors[0], vectors[1:]), nil
}
