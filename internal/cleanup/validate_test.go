package cleanup

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// handPlan assembles a plan around tasks exactly as given, without
// scheduling them.
func handPlan(tasks ...CleanupTask) *CleanupPlan {
	return &CleanupPlan{
		Tasks:             tasks,
		Phases:            GroupIntoPhases(tasks),
		EstimatedDuration: EstimateDuration(tasks),
		RiskAssessment:    AssessRisk(tasks),
	}
}

func codes(result *ValidationResult) []string {
	out := make([]string, 0, len(result.Messages))
	for _, m := range result.Messages {
		out = append(out, m.Code)
	}
	return out
}

func TestValidatePlan_GeneratedPlanIsValid(t *testing.T) {
	classified, patterns := sampleInput()
	plan := NewPlanner(WithSequentialIDs("t")).GeneratePlan(classified, patterns)

	result := ValidatePlan(plan)
	if !result.IsValid || result.ErrorCount != 0 || result.WarningCount != 0 {
		t.Errorf("ValidatePlan() = %+v, want clean", result)
	}
	if result.Messages == nil {
		t.Error("Messages should be empty, not nil")
	}
}

func TestValidatePlan_Nil(t *testing.T) {
	result := ValidatePlan(nil)
	if result.IsValid || result.ErrorCount != 1 {
		t.Errorf("ValidatePlan(nil) = %+v, want one error", result)
	}
}

func TestValidatePlan_Errors(t *testing.T) {
	tests := []struct {
		name     string
		plan     func() *CleanupPlan
		wantCode string
	}{
		{
			name: "dangling dependency",
			plan: func() *CleanupPlan {
				a := task("a", CategoryTypes, RiskLow)
				a.Dependencies = []string{"ghost"}
				return handPlan(a)
			},
			wantCode: CodeDanglingDep,
		},
		{
			name: "self dependency",
			plan: func() *CleanupPlan {
				a := task("a", CategoryTypes, RiskLow)
				a.Dependencies = []string{"a"}
				return handPlan(a)
			},
			wantCode: CodeSelfDependency,
		},
		{
			name: "duplicate id",
			plan: func() *CleanupPlan {
				return handPlan(task("a", CategoryTypes, RiskLow), task("a", CategoryServices, RiskLow))
			},
			wantCode: CodeDuplicateTaskID,
		},
		{
			name: "phase mismatch",
			plan: func() *CleanupPlan {
				a := task("a", CategoryServices, RiskLow)
				a.Phase = PhaseFoundation
				return handPlan(a)
			},
			wantCode: CodePhaseMismatch,
		},
		{
			name: "phase out of range",
			plan: func() *CleanupPlan {
				a := task("a", CategoryServices, RiskLow)
				a.Phase = 9
				return handPlan(a)
			},
			wantCode: CodePhaseOutOfRange,
		},
		{
			name: "dependency ordered after dependent",
			plan: func() *CleanupPlan {
				types := task("types", CategoryTypes, RiskLow)
				svc := task("svc", CategoryServices, RiskLow)
				svc.Dependencies = []string{"types"}
				return handPlan(svc, types)
			},
			wantCode: CodeOrderViolation,
		},
		{
			name: "critical task under low overall risk",
			plan: func() *CleanupPlan {
				p := handPlan(task("a", CategoryGeneral, RiskCritical))
				p.RiskAssessment.OverallRisk = RiskLow
				return p
			},
			wantCode: CodeRiskInconsistent,
		},
		{
			name: "phases out of sync with tasks",
			plan: func() *CleanupPlan {
				p := handPlan(task("a", CategoryTypes, RiskLow), task("b", CategoryServices, RiskLow))
				p.Phases = p.Phases[:1]
				return p
			},
			wantCode: CodePhaseGrouping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePlan(tt.plan())
			if result.IsValid {
				t.Fatalf("IsValid = true, want false; messages: %v", result.Messages)
			}
			if !slices.Contains(codes(result), tt.wantCode) {
				t.Errorf("codes = %v, want %s among them", codes(result), tt.wantCode)
			}
			if got := len(result.MessagesBySeverity(DiagnosticError)); got != result.ErrorCount {
				t.Errorf("ErrorCount = %d, but %d error messages", result.ErrorCount, got)
			}
		})
	}
}

func TestValidatePlan_OrderViolationOnly(t *testing.T) {
	types := task("types", CategoryTypes, RiskLow)
	svc := task("svc", CategoryServices, RiskLow)
	svc.Dependencies = []string{"types"}

	result := ValidatePlan(handPlan(svc, types))
	if diff := cmp.Diff([]string{CodeOrderViolation}, codes(result)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"svc", "types"}, result.Messages[0].TaskIDs); diff != "" {
		t.Errorf("task ids mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatePlan_CycleIsWarning(t *testing.T) {
	a := task("a", CategoryServices, RiskLow)
	a.Dependencies = []string{"b"}
	b := task("b", CategoryServices, RiskLow)
	b.Dependencies = []string{"a"}

	result := ValidatePlan(handPlan(a, b))
	if !result.IsValid {
		t.Errorf("IsValid = false, want true; messages: %v", result.Messages)
	}
	if result.WarningCount != 1 || result.ErrorCount != 0 {
		t.Errorf("counts = %d warnings, %d errors; want 1, 0", result.WarningCount, result.ErrorCount)
	}
	warn := result.MessagesBySeverity(DiagnosticWarning)[0]
	if warn.Code != CodeDependencyCycle {
		t.Errorf("warning code = %s, want %s", warn.Code, CodeDependencyCycle)
	}
	if diff := cmp.Diff([]string{"a", "b", "a"}, warn.TaskIDs); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectCycle(t *testing.T) {
	withDeps := func(id string, deps ...string) CleanupTask {
		ct := task(id, CategoryGeneral, RiskLow)
		ct.Dependencies = deps
		return ct
	}

	tests := []struct {
		name  string
		tasks []CleanupTask
		want  []string
	}{
		{"empty", nil, nil},
		{"chain", []CleanupTask{withDeps("a"), withDeps("b", "a"), withDeps("c", "b")}, nil},
		{"diamond", []CleanupTask{withDeps("a"), withDeps("b", "a"), withDeps("c", "a"), withDeps("d", "b", "c")}, nil},
		{"three cycle", []CleanupTask{withDeps("a", "b"), withDeps("b", "c"), withDeps("c", "a")}, []string{"a", "b", "c", "a"}},
		{"self loop", []CleanupTask{withDeps("x"), withDeps("a", "a")}, []string{"a", "a"}},
		{"unknown ids ignored", []CleanupTask{withDeps("a", "ghost")}, nil},
		{"cycle behind a tail", []CleanupTask{withDeps("t", "a"), withDeps("a", "b"), withDeps("b", "a")}, []string{"a", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DetectCycle(tt.tasks)); diff != "" {
				t.Errorf("DetectCycle() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSequentialGenerator(t *testing.T) {
	g := NewSequentialGenerator("")
	if got := g.NextID(); got != "task-1" {
		t.Errorf("first id = %q, want task-1", got)
	}
	if got := g.NextID(); got != "task-2" {
		t.Errorf("second id = %q, want task-2", got)
	}

	u := UUIDGenerator{}
	if u.NextID() == u.NextID() {
		t.Error("UUIDGenerator repeated an id")
	}
}
