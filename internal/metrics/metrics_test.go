package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

func samplePlan() *cleanup.CleanupPlan {
	classified := cleanup.Classify([]cleanup.Issue{
		{ID: "i1", File: "a.ts", Category: cleanup.CategoryTypes, Severity: cleanup.SeverityCritical, EstimatedEffort: cleanup.EffortSmall},
		{ID: "i2", File: "b.ts", Category: cleanup.CategoryServices, Severity: cleanup.SeverityHigh, EstimatedEffort: cleanup.EffortSmall},
		{ID: "i3", File: "c.ts", Category: cleanup.CategoryServices, Severity: cleanup.SeverityLow, EstimatedEffort: cleanup.EffortSmall},
	})
	return cleanup.NewPlanner(cleanup.WithSequentialIDs("t")).GeneratePlan(classified, nil)
}

// gauge returns the value of the series name{labels}, failing if absent.
func gauge(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				switch {
				case m.GetGauge() != nil:
					return m.GetGauge().GetValue()
				case m.GetCounter() != nil:
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("series %s%v not found", name, labels)
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	if len(m.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestObserve(t *testing.T) {
	c := NewCollector()
	plan := samplePlan()
	c.Observe(plan)

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"remedy_plan_tasks", map[string]string{"phase": "Foundation"}, 1},
		{"remedy_plan_tasks", map[string]string{"phase": "Services"}, 2},
		{"remedy_plan_tasks", map[string]string{"phase": "Polish"}, 0},
		{"remedy_plan_high_risk_tasks", nil, 2},
		{"remedy_plan_overall_risk", map[string]string{"level": "critical"}, 1},
		{"remedy_plan_overall_risk", map[string]string{"level": "low"}, 0},
		{"remedy_plan_diagnostics", map[string]string{"severity": "warning"}, 0},
		{"remedy_plans_generated_total", nil, 1},
	}
	for _, tt := range tests {
		if got := gauge(t, c, tt.name, tt.labels); got != tt.want {
			t.Errorf("%s%v = %v, want %v", tt.name, tt.labels, got, tt.want)
		}
	}

	if got, want := gauge(t, c, "remedy_plan_estimated_days", nil), cleanup.EstimateDays(plan.Tasks); got != want {
		t.Errorf("estimated_days = %v, want %v", got, want)
	}
}

func TestObserve_ReplacesPreviousPlan(t *testing.T) {
	c := NewCollector()
	c.Observe(samplePlan())
	c.Observe(cleanup.GeneratePlan(cleanup.ClassifiedIssues{}, nil))

	if got := gauge(t, c, "remedy_plan_tasks", map[string]string{"phase": "Services"}); got != 0 {
		t.Errorf("Services tasks = %v after an empty plan, want 0", got)
	}
	if got := gauge(t, c, "remedy_plan_overall_risk", map[string]string{"level": "low"}); got != 1 {
		t.Errorf("overall_risk{low} = %v, want 1", got)
	}
	if got := gauge(t, c, "remedy_plans_generated_total", nil); got != 2 {
		t.Errorf("plans_generated_total = %v, want 2", got)
	}
}

func TestObserve_Diagnostics(t *testing.T) {
	c := NewCollector()
	plan := samplePlan()
	plan.Diagnostics = []cleanup.Diagnostic{
		{Severity: cleanup.DiagnosticWarning, Code: cleanup.CodeDependencyCycle},
		{Severity: cleanup.DiagnosticWarning, Code: cleanup.CodeDependencyCycle},
	}
	c.Observe(plan)
	if got := gauge(t, c, "remedy_plan_diagnostics", map[string]string{"severity": "warning"}); got != 2 {
		t.Errorf("diagnostics{warning} = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.Observe(samplePlan())
	c.ObserveRequest("/v1/plans", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`remedy_plan_tasks{phase="Services"} 2`,
		`remedy_http_requests_total{code="200",route="/v1/plans"} 1`,
		`remedy_http_request_duration_seconds_count{route="/v1/plans"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remedy.prom")
	if err := WriteTextfile(path, samplePlan()); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(content)
	if !strings.Contains(out, `remedy_plan_overall_risk{level="critical"} 1`) {
		t.Errorf("textfile missing overall risk:\n%s", out)
	}
	if strings.Contains(out, "remedy_http_requests_total") {
		t.Error("textfile should not contain request metrics")
	}
}
