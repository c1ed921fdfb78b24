// Package analysis ranks the sections of a document collection for a persona and a task.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/docsight/internal/encoder"
	"github.com/jonathan/docsight/internal/metrics"
	"github.com/jonathan/docsight/internal/ranking"
	"github.com/jonathan/docsight/internal/types"
)

// Extractor reads a document into spans.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]types.Span, error)
}

// Segmenter splits a document's spans into sections.
type Segmenter interface {
	Segment(spans []types.Span) []types.DocumentSection
}

// Progress steps
const (
	StepValidate = "validate"
	StepDocument = "document"
	StepEncode   = "encode"
	StepRank     = "rank"
	StepComplete = "complete"
)

// ProgressEvent reports progress during an analysis.
type ProgressEvent struct {
	Step     string `json:"step"`
	Document string `json:"document,omitempty"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback receives progress events. Calls are serialized.
type ProgressCallback func(event ProgressEvent)

// Options bounds the work done per request.
type Options struct {
	MaxDocuments    int
	TopSections     int
	TopSubsections  int
	Workers         int
	DocumentTimeout time.Duration // zero disables the per-document deadline
}

// DefaultOptions returns the standard limits.
func DefaultOptions() Options {
	return Options{
		MaxDocuments:   50,
		TopSections:    20,
		TopSubsections: 10,
		Workers:        4,
	}
}

// DocumentResult is the outcome for one input document.
type DocumentResult struct {
	Name     string
	Path     string
	Sections []types.DocumentSection
	Err      error
	Duration time.Duration
}

// Result is the outcome of Analyze.
type Result struct {
	Output    *types.AnalysisOutput
	Ranked    []types.RankedSection
	Documents []DocumentResult
}

// Analyzer processes analysis requests. It is safe for concurrent use.
type Analyzer struct {
	extractor Extractor
	segmenter Segmenter
	ranker    *ranking.Ranker
	encoder   encoder.Encoder
	fallback  encoder.Encoder
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyzer wires the pipeline stages. A nil encoder selects the lexical encoder.
func NewAnalyzer(extractor Extractor, segmenter Segmenter, ranker *ranking.Ranker, enc encoder.Encoder, opts Options, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := encoder.NewLexicalEncoder()
	if enc == nil {
		enc = fallback
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Analyzer{
		extractor: extractor,
		segmenter: segmenter,
		ranker:    ranker,
		encoder:   enc,
		fallback:  fallback,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Options returns the analyzer's limits.
func (a *Analyzer) Options() Options {
	return a.opts
}

// EncoderName returns the name of the configured encoder.
func (a *Analyzer) EncoderName() string {
	return a.encoder.Name()
}

// Analyze validates req, processes every document and ranks all sections together.
// A malformed request fails with ValidationErrors before any document is read.
// Per-document failures are reported in the output and never fail the request.
func (a *Analyzer) Analyze(ctx context.Context, req *types.AnalysisRequest, onProgress ProgressCallback) (*Result, error) {
	start := a.now()
	emit := serialize(onProgress)

	if err := ValidateRequest(req, a.opts.MaxDocuments); err != nil {
		return nil, err
	}
	emit(ProgressEvent{Step: StepValidate, Message: fmt.Sprintf("Validated request with %d documents", len(req.Documents))})

	docs, err := a.processDocuments(ctx, req.Documents, emit)
	if err != nil {
		return nil, err
	}

	var sections []types.DocumentSection
	var docErrors []types.DocumentError
	failed := 0
	for _, d := range docs {
		if d.Err != nil {
			failed++
			sections = append(sections, degenerateSection(d.Name, d.Err))
			docErrors = append(docErrors, types.DocumentError{
				Document: d.Name,
				Category: CategoryExtraction,
				Message:  d.Err.Error(),
			})
			continue
		}
		sections = append(sections, d.Sections...)
	}

	nlpScores, encoderName, encErr := a.scoreSections(ctx, req.Persona+" "+req.JobToBeDone, sections)
	if encErr != nil {
		docErrors = append(docErrors, types.DocumentError{Category: CategoryEncoding, Message: encErr.Error()})
	}
	emit(ProgressEvent{Step: StepEncode, Message: fmt.Sprintf("Scored %d sections with %s", len(sections), encoderName)})

	ranked := a.ranker.Rank(sections, req.Persona, req.JobToBeDone, nlpScores)
	emit(ProgressEvent{Step: StepRank, Message: fmt.Sprintf("Ranked %d sections", len(ranked)), Content: len(ranked)})

	output := buildOutput(req, ranked, outputStats{
		timestamp:     start,
		elapsed:       a.now().Sub(start),
		encoder:       encoderName,
		errors:        docErrors,
		processed:     len(docs) - failed,
		failed:        failed,
		topSections:   a.opts.TopSections,
		topSubsection: a.opts.TopSubsections,
	})

	a.logger.Info("analysis complete",
		zap.Int("documents", len(docs)),
		zap.Int("failed", failed),
		zap.Int("sections", len(sections)),
		zap.String("encoder", encoderName),
		zap.Duration("duration", a.now().Sub(start)))
	emit(ProgressEvent{Step: StepComplete, Message: "Analysis complete", Content: output})

	return &Result{Output: output, Ranked: ranked, Documents: docs}, nil
}

// processDocuments runs extraction and segmentation for each document with bounded concurrency.
// Results keep the request order.
func (a *Analyzer) processDocuments(ctx context.Context, refs []types.DocumentRef, emit ProgressCallback) ([]DocumentResult, error) {
	results := make([]DocumentResult, len(refs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)

	for i, ref := range refs {
		g.Go(func() error {
			started := time.Now()
			sections, err := a.processDocument(gCtx, ref)
			elapsed := time.Since(started)

			results[i] = DocumentResult{Name: ref.Name, Path: ref.Path, Sections: sections, Err: err, Duration: elapsed}
			metrics.ObserveDocument("analysis", elapsed.Seconds(), err)

			if err != nil {
				a.logger.Warn("document failed", zap.String("document", ref.Name), zap.Error(err))
				emit(ProgressEvent{Step: StepDocument, Document: ref.Name, Message: "Failed: " + err.Error()})
				return nil
			}
			metrics.SectionsDetected.Observe(float64(len(sections)))
			emit(ProgressEvent{
				Step:     StepDocument,
				Document: ref.Name,
				Message:  fmt.Sprintf("Detected %d sections", len(sections)),
				Content:  len(sections),
			})
			return nil
		})
	}

	// goroutines never return errors; a cancelled parent aborts the request
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}
	return results, nil
}

type docOutcome struct {
	sections []types.DocumentSection
	err      error
}

// processDocument extracts and segments one document under the per-document deadline.
func (a *Analyzer) processDocument(ctx context.Context, ref types.DocumentRef) ([]types.DocumentSection, error) {
	if a.opts.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.DocumentTimeout)
		defer cancel()
	}

	done := make(chan docOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- docOutcome{err: fmt.Errorf("processing panic: %v", r)}
			}
		}()
		spans, err := a.extractor.Extract(ctx, ref.Path)
		if err != nil {
			done <- docOutcome{err: err}
			return
		}
		sections := a.segmenter.Segment(spans)
		for i := range sections {
			sections[i].Document = ref.Name
		}
		done <- docOutcome{sections: sections}
	}()

	select {
	case out := <-done:
		return out.sections, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("processing exceeded %s deadline: %w", a.opts.DocumentTimeout, ctx.Err())
		}
		return nil, ctx.Err()
	}
}

// scoreSections computes the semantic similarity of each section to the query.
// Degenerate sections score zero. An encoder failure falls back to the lexical encoder
// and is returned so the caller can report it.
func (a *Analyzer) scoreSections(ctx context.Context, query string, sections []types.DocumentSection) ([]float64, string, error) {
	scores := make([]float64, len(sections))
	var texts []string
	var idx []int
	for i, s := range sections {
		if s.Failed {
			continue
		}
		texts = append(texts, s.Title+" "+s.ContentPreview)
		idx = append(idx, i)
	}
	if len(texts) == 0 {
		return scores, a.encoder.Name(), nil
	}

	name := a.encoder.Name()
	sims, err := encoder.Score(ctx, a.encoder, query, texts)
	var encErr error
	if err != nil {
		encErr = err
		a.logger.Warn("encoder failed, re-scoring with lexical encoder",
			zap.String("encoder", name), zap.Error(err))
		metrics.EncoderFallbacksTotal.Inc()

		name = a.fallback.Name()
		sims, err = encoder.Score(ctx, a.fallback, query, texts)
		if err != nil {
			// lexical scoring only fails on a cancelled context; rank on heuristics alone
			return scores, name, errors.Join(encErr, err)
		}
	}

	for j, i := range idx {
		scores[i] = clampScore(sims[j])
	}
	return scores, name, encErr
}

func degenerateSection(name string, err error) types.DocumentSection {
	return types.DocumentSection{
		Document:       name,
		Title:          "Error processing " + name,
		Level:          types.LevelH1,
		Page:           1,
		Confidence:     0,
		ContentPreview: err.Error(),
		Failed:         true,
	}
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// serialize wraps cb so concurrent workers never call it at the same time.
func serialize(cb ProgressCallback) ProgressCallback {
	if cb == nil {
		return func(ProgressEvent) {}
	}
	var mu sync.Mutex
	return func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		cb(e)
	}
}
