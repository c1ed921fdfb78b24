package layout

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker is appended to text cut by Truncate.
const TruncationMarker = "..."

// bulletGlyphs are characters that introduce list items.
var bulletGlyphs = []string{"•", "●", "○", "◦", "▪", "■", "–", "-", "*", "·"}

// CollapseWhitespace trims s and replaces every run of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most limit runes, ending in TruncationMarker when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - utf8.RuneCountInString(TruncationMarker)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:keep]), " ") + TruncationMarker
}

// StartsWithBullet reports whether text begins with a list bullet glyph.
func StartsWithBullet(text string) bool {
	text = strings.TrimSpace(text)
	for _, g := range bulletGlyphs {
		if strings.HasPrefix(text, g) {
			return true
		}
	}
	return false
}

// IsBulletGlyph reports whether text consists of a single bullet glyph.
func IsBulletGlyph(text string) bool {
	text = strings.TrimSpace(text)
	for _, g := range bulletGlyphs {
		if text == g {
			return true
		}
	}
	return false
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
