package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/tui/styles"
	"github.com/Iron-Ham/remedy/internal/util"
)

// TextStyles returns the palette for the text report. With color disabled
// every style renders plain text.
func TextStyles(w io.Writer, color bool) styles.Styles {
	if !color {
		return styles.Plain()
	}
	return styles.New(lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256)))
}

func renderText(w io.Writer, plan *cleanup.CleanupPlan, opts Options) error {
	_, err := io.WriteString(w, RenderText(plan, opts.Source, TextStyles(w, opts.Color)))
	return err
}

// RenderText renders the terminal summary of plan with the given styles.
func RenderText(plan *cleanup.CleanupPlan, source string, st styles.Styles) string {
	var sb strings.Builder

	sb.WriteString(st.Title.Render("Cleanup Plan"))
	if source != "" {
		sb.WriteString(st.Muted.Render("  " + source))
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "%s %d   %s %d   %s %s   %s %s\n",
		st.Label.Render("tasks"), len(plan.Tasks),
		st.Label.Render("phases"), len(plan.Phases),
		st.Label.Render("estimate"), plan.EstimatedDuration,
		st.Label.Render("risk"), st.Risk(plan.RiskAssessment.OverallRisk))

	if len(plan.Tasks) == 0 {
		sb.WriteString("\nNo cleanup tasks: nothing to remediate.\n")
	}

	step := 0
	for _, phase := range plan.Phases {
		sb.WriteByte('\n')
		sb.WriteString(st.PhaseHeader.Render(fmt.Sprintf("Phase %d: %s", phase.PhaseNumber, phase.PhaseName)))
		sb.WriteString(st.Muted.Render("  " + phase.Description))
		sb.WriteByte('\n')

		for _, task := range phase.Tasks {
			step++
			writeTaskLine(&sb, st, step, task)
		}
	}

	if len(plan.RiskAssessment.HighRiskTasks) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(st.PhaseHeader.Render("High-risk tasks"))
		sb.WriteByte('\n')
		for _, task := range plan.RiskAssessment.HighRiskTasks {
			fmt.Fprintf(&sb, "  %s %s (%s)\n", st.TaskID.Render(task.ID), task.Title, st.Risk(task.RiskLevel))
		}
	}

	if len(plan.Diagnostics) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(st.PhaseHeader.Render("Diagnostics"))
		sb.WriteByte('\n')
		for _, d := range plan.Diagnostics {
			fmt.Fprintf(&sb, "  %s %s: %s\n", st.Diagnostic(d.Severity), d.Code, d.Message)
		}
	}

	return sb.String()
}

func writeTaskLine(sb *strings.Builder, st styles.Styles, step int, task cleanup.CleanupTask) {
	fmt.Fprintf(sb, "  %2d. %s %s\n", step, st.TaskTitle.Render(task.Title), st.TaskID.Render("["+task.ID+"]"))

	meta := []string{string(task.EstimatedEffort), "risk " + st.Risk(task.RiskLevel)}
	if task.RequiresTests {
		meta = append(meta, "needs tests")
	}
	fmt.Fprintf(sb, "      %s\n", st.Muted.Render(strings.Join(meta, " · ")))

	if len(task.AffectedFiles) > 0 {
		fmt.Fprintf(sb, "      %s %s\n", st.Label.Render("files"), util.Summarize(task.AffectedFiles, 3))
	}
	if len(task.Dependencies) > 0 {
		fmt.Fprintf(sb, "      %s %s\n", st.Label.Render("after"), strings.Join(task.Dependencies, ", "))
	}
}
