package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	redStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string // empty means only the width is checked
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact width unchanged", "hello", 5, "hello"},
		{"plain string truncated", "hello world", 8, "hello..."},
		{"tiny width is all ellipsis", "hello", 3, "..."},
		{"zero width is all ellipsis", "hello", 0, "..."},
		{"wide runes count double", "日本語のテキスト", 9, ""},
		{"styled string truncated", redStyle.Render("hello world"), 8, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if tt.want != "" && got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if w := lipgloss.Width(got); tt.maxWidth > 3 && w > tt.maxWidth {
				t.Errorf("Truncate(%q, %d) width = %d", tt.input, tt.maxWidth, w)
			}
		})
	}
}

func TestTruncate_KeepsStyleWhenShort(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("hi")
	if got := Truncate(styled, 10); got != styled {
		t.Errorf("styled string was modified: %q", got)
	}
}

func TestSummarize(t *testing.T) {
	items := []string{"a.ts", "b.ts", "c.ts", "d.ts", "e.ts"}

	tests := []struct {
		name  string
		items []string
		limit int
		want  string
	}{
		{"empty", nil, 3, ""},
		{"under limit", items[:2], 3, "a.ts, b.ts"},
		{"at limit", items[:3], 3, "a.ts, b.ts, c.ts"},
		{"over limit", items, 3, "a.ts, b.ts, c.ts (+2 more)"},
		{"zero limit", items, 0, "(5 items)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.items, tt.limit); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}
