package encoder

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// LexicalName is the Name of the TF-IDF encoder.
const LexicalName = "lexical/tfidf"

var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

var defaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from", "has", "have",
	"in", "is", "it", "its", "of", "on", "or", "that", "the", "this", "to", "was",
	"were", "will", "with", "you", "your", "we", "our", "can", "all", "any",
}

// LexicalEncoder builds TF-IDF vectors over the texts of a single Encode call.
// Vectors from different calls live in different vocabularies and must not be compared.
type LexicalEncoder struct {
	stopwords map[string]struct{}
}

// NewLexicalEncoder creates a TF-IDF encoder with the built-in stop-word list.
func NewLexicalEncoder() *LexicalEncoder {
	stop := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		stop[w] = struct{}{}
	}
	return &LexicalEncoder{stopwords: stop}
}

// Name implements Encoder.
func (l *LexicalEncoder) Name() string {
	return LexicalName
}

// Encode returns L2-normalised TF-IDF vectors with smoothed idf ln((1+N)/(1+df))+1.
func (l *LexicalEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, &EncodingError{Provider: LexicalName, Cause: err}
	}

	docs := make([]map[string]int, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		counts := l.termCounts(text)
		docs[i] = counts
		for term := range counts {
			df[term]++
		}
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := float64(len(texts))
	vectors := make([][]float32, len(texts))
	for i, counts := range docs {
		vec := make([]float64, len(vocab))
		for term, count := range counts {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			vec[index[term]] = float64(count) * idf
		}
		vectors[i] = normalize(vec)
	}
	return vectors, nil
}

// Similarity implements Encoder.
func (l *LexicalEncoder) Similarity(query []float32, docs [][]float32) []float64 {
	return similarities(query, docs)
}

func (l *LexicalEncoder) termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := l.stopwords[tok]; stop {
			continue
		}
		counts[tok]++
	}
	return counts
}

func normalize(vec []float64) []float32 {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, len(vec))
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}
