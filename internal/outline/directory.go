package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/docsight/internal/metrics"
	"github.com/jonathan/docsight/internal/types"
)

// SpanExtractor produces the ordered spans of a PDF.
type SpanExtractor interface {
	Extract(ctx context.Context, path string) ([]types.Span, error)
}

// Processor extracts spans from PDF files and writes outline JSON documents.
type Processor struct {
	extractor SpanExtractor
	builder   *Builder
	logger    *zap.Logger
}

// NewProcessor creates a Processor. A nil logger disables logging.
func NewProcessor(extractor SpanExtractor, builder *Builder, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{extractor: extractor, builder: builder, logger: logger}
}

// ProcessFile extracts and outlines a single PDF.
func (p *Processor) ProcessFile(ctx context.Context, path string) (types.Outline, error) {
	start := time.Now()
	spans, err := p.extractor.Extract(ctx, path)
	metrics.ObserveDocument("outline", time.Since(start).Seconds(), err)
	if err != nil {
		return types.Outline{}, err
	}
	return p.builder.Build(spans), nil
}

// FileResult reports the outcome for one file in directory mode.
type FileResult struct {
	Input    string
	Output   string
	Headings int
	Err      error
}

// DirectoryReport summarizes a directory run.
type DirectoryReport struct {
	Results   []FileResult
	Succeeded int
	Failed    int
}

// ProcessDirectory outlines every PDF in inputDir and writes <name>.json files to outputDir.
// A failing file produces an error document and does not stop the others.
func (p *Processor) ProcessDirectory(ctx context.Context, inputDir, outputDir string, workers int) (*DirectoryReport, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	report := &DirectoryReport{Results: make([]FileResult, len(files))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, name := range files {
		g.Go(func() error {
			res := p.processOne(gctx, filepath.Join(inputDir, name), outputDir)
			mu.Lock()
			report.Results[i] = res
			if res.Err != nil {
				report.Failed++
			} else {
				report.Succeeded++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

func (p *Processor) processOne(ctx context.Context, path, outputDir string) FileResult {
	name := filepath.Base(path)
	outPath := filepath.Join(outputDir, strings.TrimSuffix(name, filepath.Ext(name))+".json")
	res := FileResult{Input: path, Output: outPath}

	doc, err := p.ProcessFile(ctx, path)
	if err != nil {
		p.logger.Warn("Failed to outline document", zap.String("document", name), zap.Error(err))
		res.Err = err
		doc = types.Outline{
			Title:   "Error processing " + name,
			Outline: []types.OutlineEntry{},
			Error:   err.Error(),
		}
	} else {
		res.Headings = len(doc.Outline)
		p.logger.Info("Outlined document",
			zap.String("document", name),
			zap.String("title", doc.Title),
			zap.Int("headings", res.Headings))
	}

	if werr := WriteJSON(outPath, doc); werr != nil && res.Err == nil {
		res.Err = werr
	}
	return res
}

// WriteJSON writes v as indented JSON to path.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
