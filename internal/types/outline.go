package types

// HeadingLevel is the hierarchy level of a heading.
type HeadingLevel string

// Heading levels, H1 being the top level.
const (
	LevelH1 HeadingLevel = "H1"
	LevelH2 HeadingLevel = "H2"
	LevelH3 HeadingLevel = "H3"
)

// HeadingCandidate is a span judged likely to be a heading during outline construction.
type HeadingCandidate struct {
	Span       Span         `json:"span"`
	Level      HeadingLevel `json:"level"`
	Confidence float64      `json:"confidence"`
}

// OutlineEntry is a single heading in an outline.
type OutlineEntry struct {
	Level HeadingLevel `json:"level"`
	Text  string       `json:"text"`
	Page  int          `json:"page"`
}

// Outline is the single-document output: a title and headings in reading order.
type Outline struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
	// Error is only set on the per-file error documents written in directory mode.
	Error string `json:"error,omitempty"`
}
