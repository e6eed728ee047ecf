package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

// markdownData is the template input for the Markdown report.
type markdownData struct {
	*cleanup.CleanupPlan
	Source string
}

const planMarkdownTemplate = `# Cleanup Plan
{{if .Source}}
Generated from {{code .Source}}.
{{end}}
| Tasks | Phases | Estimated duration | Overall risk |
|-------|--------|--------------------|--------------|
| {{len .Tasks}} | {{len .Phases}} | {{.EstimatedDuration}} | {{.RiskAssessment.OverallRisk}} |
{{if not .Tasks}}
No cleanup tasks: nothing to remediate.
{{end}}
{{- range .Phases}}
## Phase {{.PhaseNumber}}: {{.PhaseName}}

{{.Description}}
{{range .Tasks}}
### {{.Title}}

- **ID:** {{code .ID}}
- **Category:** {{.Category}}
- **Effort:** {{.EstimatedEffort}}
- **Risk:** {{.RiskLevel}}
{{- if .RequiresTests}}
- **Requires tests:** yes
{{- end}}
{{- if .Dependencies}}
- **Depends on:** {{codeList .Dependencies}}
{{- end}}

{{.Description}}
{{if .AffectedFiles}}
**Files:**

{{range .AffectedFiles}}- {{code .}}
{{end}}{{end}}
**Steps:**

{{range $i, $step := .ActionSteps}}{{inc $i}}. {{$step}}
{{end}}{{end}}{{end}}
## Risk Assessment

Overall risk: **{{.RiskAssessment.OverallRisk}}**
{{if .RiskAssessment.HighRiskTasks}}
High-risk tasks:

{{range .RiskAssessment.HighRiskTasks}}- [ ] {{.Title}} ({{.RiskLevel}})
{{end}}{{end}}
Mitigation strategies:

{{range .RiskAssessment.MitigationStrategies}}- {{.}}
{{end}}
{{- if .Diagnostics}}
## Diagnostics

{{range .Diagnostics}}- **{{.Severity}}** {{code .Code}}: {{.Message}}
{{end}}{{end}}`

var planMarkdown = template.Must(template.New("plan-markdown").Funcs(template.FuncMap{
	"code": func(s string) string { return "`" + s + "`" },
	"codeList": func(items []string) string {
		quoted := make([]string, len(items))
		for i, item := range items {
			quoted[i] = "`" + item + "`"
		}
		return strings.Join(quoted, ", ")
	},
	"inc": func(i int) int { return i + 1 },
}).Parse(planMarkdownTemplate))

// RenderMarkdown renders plan as a Markdown document.
func RenderMarkdown(plan *cleanup.CleanupPlan, source string) (string, error) {
	var buf bytes.Buffer
	if err := planMarkdown.Execute(&buf, markdownData{CleanupPlan: plan, Source: source}); err != nil {
		return "", fmt.Errorf("failed to render plan markdown: %w", err)
	}
	return buf.String(), nil
}

func renderMarkdown(w io.Writer, plan *cleanup.CleanupPlan, opts Options) error {
	out, err := RenderMarkdown(plan, opts.Source)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
