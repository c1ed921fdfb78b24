// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/docsight/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// PrintOutline outputs the detected title and the first headings of an outline.
func (p *Printer) PrintOutline(name string, outline *types.Outline, elapsed time.Duration) {
	if outline == nil {
		return
	}

	var sb strings.Builder
	title := outline.Title
	if title == "" {
		title = "(none)"
	}
	sb.WriteString(fmt.Sprintf("Title:    %s\n", title))
	sb.WriteString(fmt.Sprintf("Headings: %d\n", len(outline.Outline)))
	sb.WriteString(fmt.Sprintf("Time:     %s\n", elapsed.Round(time.Millisecond)))

	if len(outline.Outline) > 0 {
		sb.WriteString("\n")
		count := min(len(outline.Outline), maxItemsToShow)
		for _, entry := range outline.Outline[:count] {
			indent := ""
			switch entry.Level {
			case types.LevelH2:
				indent = "  "
			case types.LevelH3:
				indent = "    "
			}
			sb.WriteString(fmt.Sprintf("%s%s %s (p.%d)\n", indent, entry.Level, entry.Text, entry.Page))
		}
		if len(outline.Outline) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(outline.Outline)-maxItemsToShow))
		}
	}

	p.printBox("OUTLINE: "+name, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedSections outputs the top ranked sections with their factor breakdown.
func (p *Printer) PrintRankedSections(ranked []types.RankedSection) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total sections ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		rs := ranked[i]
		f := rs.Factors
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rs.Section.Title))
		sb.WriteString(fmt.Sprintf("    %s, p.%d\n", rs.Section.Document, rs.Section.Page))
		sb.WriteString(fmt.Sprintf("    Score: %.3f (nlp %.2f, domain %.2f, job %.2f)\n",
			rs.TotalScore, f.NLPScore, f.DomainScore, f.JobRelevanceScore))
		sb.WriteString(fmt.Sprintf("    %s\n", rs.Explanation))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more sections", len(ranked)-maxItemsToShow))
	}

	p.printBox("TOP RANKED SECTIONS", sb.String())
}

// PrintAnalysisSummary outputs request metadata and per-document outcome counts.
func (p *Printer) PrintAnalysisSummary(out *types.AnalysisOutput) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Persona:   %s\n", out.Metadata.Persona))
	sb.WriteString(fmt.Sprintf("Job:       %s\n", out.Metadata.JobToBeDone))
	sb.WriteString(fmt.Sprintf("Encoder:   %s\n", out.Metadata.Encoder))
	sb.WriteString(fmt.Sprintf("Documents: %d\n", len(out.Metadata.InputDocuments)))
	if s := out.AnalysisSummary; s != nil {
		sb.WriteString(fmt.Sprintf("  processed %d, failed %d\n", s.DocumentsProcessed, s.DocumentsFailed))
	}
	sb.WriteString(fmt.Sprintf("Sections:  %d\n", out.Metadata.TotalSections))
	sb.WriteString(fmt.Sprintf("Time:      %.2fs", out.Metadata.ProcessingTimeSeconds))

	p.printBox("ANALYSIS SUMMARY", sb.String())
}

// PrintDocumentErrors outputs the per-document failures recorded during analysis.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintDocumentErrors(errs []types.DocumentError) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL DOCUMENTS PROCESSED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d errors:\n\n", len(errs)))

	for i, e := range errs {
		doc := e.Document
		if doc == "" {
			doc = "(request)"
		}
		sb.WriteString(fmt.Sprintf("⚠ %s: %s\n", e.Category, doc))
		sb.WriteString(fmt.Sprintf("  %s\n", e.Message))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DOCUMENT ERRORS", strings.TrimSuffix(sb.String(), "\n"))
}
