// Package extract reads PDF files into positioned text spans.
package extract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/jonathan/docsight/internal/layout"
	"github.com/jonathan/docsight/internal/types"
)

const (
	defaultPageHeight = 792.0
	sameLineTolerance = 0.5
	spaceGapRatio     = 0.25
	maxJoinGapRatio   = 3.0
)

// PDFExtractor produces spans from the text layer of a PDF.
// It keeps no per-file state and may be shared across goroutines.
type PDFExtractor struct {
	maxPages int
	logger   *zap.Logger
}

// NewPDFExtractor creates an extractor reading at most maxPages pages; 0 reads every page.
func NewPDFExtractor(maxPages int, logger *zap.Logger) *PDFExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExtractor{maxPages: maxPages, logger: logger}
}

// Extract returns spans ordered by page, then top-to-bottom, then left-to-right.
// Failures are returned as *ExtractionError.
func (e *PDFExtractor) Extract(ctx context.Context, path string) ([]types.Span, error) {
	pageCount, err := preflight(path)
	if err != nil {
		return nil, err
	}

	pages := pageCount
	if e.maxPages > 0 && pages > e.maxPages {
		pages = e.maxPages
	}

	spans, err := e.readSpans(ctx, path, pages)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted spans",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Int("spans", len(spans)))
	return spans, nil
}

// preflight validates the file with pdfcpu and returns its page count.
func preflight(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &ExtractionError{Path: path, Reason: ReasonUnreadable, Cause: err}
	}
	defer func() { _ = f.Close() }()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		reason := ReasonCorrupt
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
			reason = ReasonEncrypted
		}
		return 0, &ExtractionError{Path: path, Reason: reason, Cause: err}
	}
	if pdfCtx.PageCount == 0 {
		return 0, &ExtractionError{Path: path, Reason: ReasonNoPages}
	}
	return pdfCtx.PageCount, nil
}

func (e *PDFExtractor) readSpans(ctx context.Context, path string, pages int) (spans []types.Span, err error) {
	defer func() {
		if r := recover(); r != nil {
			spans = nil
			err = &ExtractionError{Path: path, Reason: ReasonCorrupt, Cause: fmt.Errorf("pdf parser panic: %v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonCorrupt, Cause: err}
	}
	defer func() { _ = f.Close() }()

	pages = min(pages, r.NumPage())
	for i := 1; i <= pages; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &ExtractionError{Path: path, Reason: ReasonCancelled, Cause: ctxErr}
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		spans = append(spans, groupGlyphs(p.Content().Text, i, pageHeight(p))...)
	}

	sortReadingOrder(spans)
	return spans, nil
}

func pageHeight(p pdf.Page) float64 {
	box := p.V.Key("MediaBox")
	if box.Kind() == pdf.Array && box.Len() == 4 {
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return defaultPageHeight
}

// spanBuilder accumulates consecutive glyphs that share a font and baseline.
type spanBuilder struct {
	text     strings.Builder
	font     string
	size     float64
	baseline float64
	x0, x1   float64
}

func (b *spanBuilder) accepts(g pdf.Text) bool {
	if b.text.Len() == 0 {
		return false
	}
	if g.Font != b.font || math.Abs(g.FontSize-b.size) > 0.01 {
		return false
	}
	if math.Abs(g.Y-b.baseline) >= sameLineTolerance {
		return false
	}
	gap := g.X - b.x1
	return gap <= maxJoinGapRatio*b.size && gap >= -b.size*maxJoinGapRatio
}

func (b *spanBuilder) add(g pdf.Text) {
	if b.text.Len() > 0 && g.X-b.x1 > spaceGapRatio*b.size {
		b.text.WriteByte(' ')
	}
	b.text.WriteString(g.S)
	b.x1 = max(b.x1, g.X+g.W)
}

func (b *spanBuilder) start(g pdf.Text) {
	b.text.Reset()
	b.font = g.Font
	b.size = g.FontSize
	b.baseline = g.Y
	b.x0 = g.X
	b.x1 = g.X
	b.add(g)
}

func (b *spanBuilder) span(page int, height float64) (types.Span, bool) {
	text := layout.CollapseWhitespace(b.text.String())
	if text == "" {
		return types.Span{}, false
	}
	top := height - b.baseline - b.size
	return types.Span{
		Text:     text,
		FontSize: b.size,
		IsBold:   isBoldFont(b.font),
		IsItalic: isItalicFont(b.font),
		Page:     page,
		BBox: types.BBox{
			X0: b.x0,
			Y0: top,
			X1: b.x1,
			Y1: top + b.size,
		},
	}, true
}

// groupGlyphs merges glyph runs into spans and converts to top-down page coordinates.
func groupGlyphs(glyphs []pdf.Text, page int, height float64) []types.Span {
	var spans []types.Span
	var b spanBuilder

	flush := func() {
		if sp, ok := b.span(page, height); ok {
			spans = append(spans, sp)
		}
		b.text.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if b.accepts(g) {
			b.add(g)
			continue
		}
		flush()
		b.start(g)
	}
	flush()
	return spans
}

func sortReadingOrder(spans []types.Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		ay, by := math.Round(a.BBox.Y0), math.Round(b.BBox.Y0)
		if ay != by {
			return ay < by
		}
		return a.BBox.X0 < b.BBox.X0
	})
}

func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demi"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isItalicFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}

// IsExtractionError reports whether err is an *ExtractionError.
func IsExtractionError(err error) bool {
	var extErr *ExtractionError
	return errors.As(err, &extErr)
}
