package styles

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

func TestRiskColor(t *testing.T) {
	tests := []struct {
		risk cleanup.RiskLevel
		want lipgloss.Color
	}{
		{cleanup.RiskCritical, ErrorColor},
		{cleanup.RiskHigh, OrangeColor},
		{cleanup.RiskMedium, WarningColor},
		{cleanup.RiskLow, SecondaryColor},
		{"unknown", MutedColor},
	}
	for _, tt := range tests {
		if got := RiskColor(tt.risk); got != tt.want {
			t.Errorf("RiskColor(%q) = %v, want %v", tt.risk, got, tt.want)
		}
	}
}

func TestPlain(t *testing.T) {
	s := Plain()
	if got := s.Risk(cleanup.RiskHigh); got != "high" {
		t.Errorf("Risk() = %q, want %q", got, "high")
	}
	if got := s.Diagnostic(cleanup.DiagnosticWarning); got != "[warning]" {
		t.Errorf("Diagnostic() = %q, want %q", got, "[warning]")
	}
	if got := s.Title.Render("Plan"); got != "Plan" {
		t.Errorf("Title.Render() = %q, want %q", got, "Plan")
	}
}

func TestNew_BoundToRenderer(t *testing.T) {
	// A renderer over a buffer has no terminal, so it emits no escape codes.
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	s := New(r)
	if got := s.Risk(cleanup.RiskCritical); got != "critical" {
		t.Errorf("Risk() = %q, want plain text from a non-terminal renderer", got)
	}
}
