// Package types provides type definitions for structured data used throughout the docsight system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// BBox is an axis-aligned bounding box in page units with a top-left origin.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Span is one contiguous run of text with uniform font metadata.
// Spans are produced by the extractor and read-only afterwards.
type Span struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	IsBold   bool    `json:"is_bold"`
	IsItalic bool    `json:"is_italic"`
	BBox     BBox    `json:"bbox"`
	Page     int     `json:"page"`
}

// XPos returns the left edge of the span.
func (s Span) XPos() float64 { return s.BBox.X0 }

// YPos returns the top edge of the span.
func (s Span) YPos() float64 { return s.BBox.Y0 }

// Width returns the horizontal extent of the span.
func (s Span) Width() float64 { return s.BBox.X1 - s.BBox.X0 }

// Height returns the vertical extent of the span.
func (s Span) Height() float64 { return s.BBox.Y1 - s.BBox.Y0 }
