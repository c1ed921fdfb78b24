// Package outline builds the single-document heading outline and processes directories of PDFs.
package outline

import (
	"github.com/jonathan/docsight/internal/headings"
	"github.com/jonathan/docsight/internal/layout"
	"github.com/jonathan/docsight/internal/title"
	"github.com/jonathan/docsight/internal/types"
)

// Builder turns a document's spans into an Outline.
type Builder struct {
	scorer   *headings.Scorer
	resolver *title.Resolver
}

// NewBuilder creates a Builder from a heading scorer and a title resolver.
func NewBuilder(scorer *headings.Scorer, resolver *title.Resolver) *Builder {
	return &Builder{scorer: scorer, resolver: resolver}
}

// NewDefaultBuilder creates a Builder with the default heading and title rules.
func NewDefaultBuilder() *Builder {
	return NewBuilder(headings.NewScorer(headings.DefaultRules()), title.NewResolver(title.DefaultRules()))
}

// Build resolves the title and returns the refined headings in reading order.
// Candidates that repeat the title are dropped before refinement.
func (b *Builder) Build(spans []types.Span) types.Outline {
	result := types.Outline{
		Title:   b.resolver.Resolve(spans),
		Outline: []types.OutlineEntry{},
	}

	candidates := b.scorer.Detect(spans)
	kept := candidates[:0:0]
	for _, c := range candidates {
		if b.resolver.Clean(c.Span.Text) == result.Title {
			continue
		}
		kept = append(kept, c)
	}

	for _, c := range headings.Refine(kept) {
		result.Outline = append(result.Outline, types.OutlineEntry{
			Level: c.Level,
			Text:  layout.CollapseWhitespace(c.Span.Text),
			Page:  c.Span.Page,
		})
	}
	return result
}
