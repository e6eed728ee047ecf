// Package styles holds the lipgloss palette shared by the plan viewer and
// the text report.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	BlueColor      = lipgloss.Color("#60A5FA")
	OrangeColor    = lipgloss.Color("#FB923C")
)

// Styles is a set of styles bound to one renderer, so output written to a
// file or pipe can be styled independently of stdout.
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	PhaseHeader lipgloss.Style
	TaskID      lipgloss.Style
	TaskTitle   lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	ContentBox  lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Selected    lipgloss.Style

	HelpBar lipgloss.Style
	HelpKey lipgloss.Style

	ErrorMsg   lipgloss.Style
	WarningMsg lipgloss.Style
	SuccessMsg lipgloss.Style

	renderer *lipgloss.Renderer
}

// New builds the palette for r. A nil renderer uses lipgloss's default.
func New(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	s := r.NewStyle

	return Styles{
		Title: s().
			Bold(true).
			Foreground(PrimaryColor),

		Subtitle: s().
			Foreground(MutedColor).
			Italic(true),

		PhaseHeader: s().
			Bold(true).
			Foreground(BlueColor),

		TaskID:    s().Foreground(MutedColor),
		TaskTitle: s().Bold(true).Foreground(TextColor),
		Label:     s().Foreground(SecondaryColor),
		Muted:     s().Foreground(MutedColor),

		ContentBox: s().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1),

		TabActive: s().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1),

		TabInactive: s().
			Foreground(MutedColor).
			Padding(0, 1),

		Selected: s().
			Bold(true).
			Foreground(TextColor).
			Background(SurfaceColor),

		HelpBar: s().
			Foreground(MutedColor).
			MarginTop(1),

		HelpKey: s().
			Bold(true).
			Foreground(SecondaryColor),

		ErrorMsg:   s().Foreground(ErrorColor).Bold(true),
		WarningMsg: s().Foreground(WarningColor).Bold(true),
		SuccessMsg: s().Foreground(SecondaryColor).Bold(true),

		renderer: r,
	}
}

// Plain returns styles that add no colour or emphasis. Borders and padding
// are kept so layout does not change.
func Plain() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Title:       p,
		Subtitle:    p,
		PhaseHeader: p,
		TaskID:      p,
		TaskTitle:   p,
		Label:       p,
		Muted:       p,
		ContentBox:  p.Border(lipgloss.NormalBorder()).Padding(0, 1),
		TabActive:   p.Padding(0, 1).Underline(true),
		TabInactive: p.Padding(0, 1),
		Selected:    p.Reverse(true),
		HelpBar:     p.MarginTop(1),
		HelpKey:     p,
		ErrorMsg:    p,
		WarningMsg:  p,
		SuccessMsg:  p,
	}
}

// RiskColor returns the color for a risk level
func RiskColor(risk cleanup.RiskLevel) lipgloss.Color {
	switch risk {
	case cleanup.RiskCritical:
		return ErrorColor
	case cleanup.RiskHigh:
		return OrangeColor
	case cleanup.RiskMedium:
		return WarningColor
	case cleanup.RiskLow:
		return SecondaryColor
	default:
		return MutedColor
	}
}

// Risk renders a risk level in its color.
func (s Styles) Risk(risk cleanup.RiskLevel) string {
	if s.renderer == nil {
		return string(risk)
	}
	return s.renderer.NewStyle().Bold(true).Foreground(RiskColor(risk)).Render(string(risk))
}

// Diagnostic renders a diagnostic severity tag in its color.
func (s Styles) Diagnostic(sev cleanup.DiagnosticSeverity) string {
	tag := "[" + string(sev) + "]"
	switch sev {
	case cleanup.DiagnosticError:
		return s.ErrorMsg.Render(tag)
	case cleanup.DiagnosticWarning:
		return s.WarningMsg.Render(tag)
	default:
		return s.Muted.Render(tag)
	}
}
