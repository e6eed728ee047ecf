// Package util holds small text helpers shared by the text report and the
// plan viewer.
package util

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Truncate cuts s to at most maxWidth terminal columns, ending in Ellipsis.
// Escape sequences in styled text are kept and wide runes count as two
// columns.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= len(Ellipsis) {
		return Ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// Summarize joins up to limit items with ", " and counts the rest, as in
// "a.ts, b.ts (+3 more)". A non-positive limit only reports the count.
func Summarize(items []string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	rest := len(items) - limit
	if limit == 0 {
		return fmt.Sprintf("(%d items)", rest)
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:limit], ", "), rest)
}
