package cleanup

import (
	"fmt"
	"strings"
)

// ValidationResult is the outcome of ValidatePlan.
type ValidationResult struct {
	IsValid      bool         `json:"valid"`
	ErrorCount   int          `json:"errorCount"`
	WarningCount int          `json:"warningCount"`
	Messages     []Diagnostic `json:"messages"`
}

func (r *ValidationResult) add(d Diagnostic) {
	switch d.Severity {
	case DiagnosticError:
		r.IsValid = false
		r.ErrorCount++
	case DiagnosticWarning:
		r.WarningCount++
	}
	r.Messages = append(r.Messages, d)
}

// MessagesBySeverity returns the messages of one severity, in order.
func (r *ValidationResult) MessagesBySeverity(s DiagnosticSeverity) []Diagnostic {
	var out []Diagnostic
	for _, m := range r.Messages {
		if m.Severity == s {
			out = append(out, m)
		}
	}
	return out
}

// ValidatePlan checks a plan, typically one read back from disk, against the
// invariants GeneratePlan guarantees. A dependency cycle is only a warning,
// since the scheduler tolerates cycles; every other violation is an error.
func ValidatePlan(plan *CleanupPlan) *ValidationResult {
	result := &ValidationResult{IsValid: true, Messages: make([]Diagnostic, 0)}
	if plan == nil {
		result.add(Diagnostic{Severity: DiagnosticError, Code: "nil_plan", Message: "plan is nil"})
		return result
	}

	position := make(map[string]int, len(plan.Tasks))
	for i, task := range plan.Tasks {
		if _, dup := position[task.ID]; dup {
			result.add(Diagnostic{
				Severity: DiagnosticError,
				Code:     CodeDuplicateTaskID,
				Message:  fmt.Sprintf("task id %q appears more than once", task.ID),
				TaskIDs:  []string{task.ID},
			})
			continue
		}
		position[task.ID] = i
	}

	for _, task := range plan.Tasks {
		validateTask(result, task, position)
	}

	cycle := DetectCycle(plan.Tasks)
	if cycle != nil {
		result.add(Diagnostic{
			Severity: DiagnosticWarning,
			Code:     CodeDependencyCycle,
			Message:  fmt.Sprintf("dependency cycle: %s", strings.Join(cycle, " -> ")),
			TaskIDs:  cycle,
		})
	} else {
		for i, task := range plan.Tasks {
			for _, depID := range task.Dependencies {
				if pos, ok := position[depID]; ok && pos > i {
					result.add(Diagnostic{
						Severity: DiagnosticError,
						Code:     CodeOrderViolation,
						Message:  fmt.Sprintf("task %q is ordered before its dependency %q", task.ID, depID),
						TaskIDs:  []string{task.ID, depID},
					})
				}
			}
		}
	}

	validateRisk(result, plan)
	validatePhases(result, plan)

	return result
}

func validateTask(result *ValidationResult, task CleanupTask, position map[string]int) {
	for _, depID := range task.Dependencies {
		if depID == task.ID {
			result.add(Diagnostic{
				Severity: DiagnosticError,
				Code:     CodeSelfDependency,
				Message:  fmt.Sprintf("task %q depends on itself", task.ID),
				TaskIDs:  []string{task.ID},
			})
			continue
		}
		if _, ok := position[depID]; !ok {
			result.add(Diagnostic{
				Severity: DiagnosticError,
				Code:     CodeDanglingDep,
				Message:  fmt.Sprintf("task %q depends on unknown task %q", task.ID, depID),
				TaskIDs:  []string{task.ID},
			})
		}
	}

	if task.Phase < 1 || task.Phase > NumPhases {
		result.add(Diagnostic{
			Severity: DiagnosticError,
			Code:     CodePhaseOutOfRange,
			Message:  fmt.Sprintf("task %q has phase %d, want 1-%d", task.ID, task.Phase, NumPhases),
			TaskIDs:  []string{task.ID},
		})
	} else if want := PhaseFor(task.Category); task.Phase != want {
		result.add(Diagnostic{
			Severity: DiagnosticError,
			Code:     CodePhaseMismatch,
			Message:  fmt.Sprintf("task %q in category %s has phase %d, want %d", task.ID, task.Category, task.Phase, want),
			TaskIDs:  []string{task.ID},
		})
	}
}

func validateRisk(result *ValidationResult, plan *CleanupPlan) {
	for _, task := range plan.Tasks {
		if task.RiskLevel == RiskCritical && plan.RiskAssessment.OverallRisk != RiskCritical {
			result.add(Diagnostic{
				Severity: DiagnosticError,
				Code:     CodeRiskInconsistent,
				Message: fmt.Sprintf("task %q is critical but overall risk is %q",
					task.ID, plan.RiskAssessment.OverallRisk),
				TaskIDs: []string{task.ID},
			})
			return
		}
	}
}

// validatePhases checks that Phases is exactly GroupIntoPhases(Tasks),
// comparing task ids only.
func validatePhases(result *ValidationResult, plan *CleanupPlan) {
	want := GroupIntoPhases(plan.Tasks)
	if len(want) != len(plan.Phases) {
		result.add(Diagnostic{
			Severity: DiagnosticError,
			Code:     CodePhaseGrouping,
			Message:  fmt.Sprintf("plan has %d phases, tasks group into %d", len(plan.Phases), len(want)),
		})
		return
	}
	for i, phase := range plan.Phases {
		if phase.PhaseNumber != want[i].PhaseNumber || !sameTaskIDs(phase.Tasks, want[i].Tasks) {
			result.add(Diagnostic{
				Severity: DiagnosticError,
				Code:     CodePhaseGrouping,
				Message:  fmt.Sprintf("phase %d does not match the scheduled tasks of phase %d", phase.PhaseNumber, want[i].PhaseNumber),
			})
		}
	}
}

func sameTaskIDs(a, b []CleanupTask) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

type visitState int

const (
	visitNew visitState = iota
	visitVisiting
	visitDone
)

// DetectCycle returns one dependency cycle if the tasks contain any, else
// nil. The path repeats its starting id at the end, e.g. [a b c a].
// Unknown dependency ids are ignored. Tasks are visited in slice order so
// the reported cycle is deterministic.
func DetectCycle(tasks []CleanupTask) []string {
	byID := make(map[string]*CleanupTask, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	state := make(map[string]visitState, len(tasks))
	onStack := make(map[string]int)
	var stack, cycle []string

	var dfs func(id string)
	dfs = func(id string) {
		state[id] = visitVisiting
		onStack[id] = len(stack)
		stack = append(stack, id)

		for _, depID := range byID[id].Dependencies {
			if cycle != nil {
				return
			}
			if _, ok := byID[depID]; !ok {
				continue
			}
			switch state[depID] {
			case visitNew:
				dfs(depID)
			case visitVisiting:
				cycle = append([]string{}, stack[onStack[depID]:]...)
				cycle = append(cycle, depID)
				return
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, id)
		state[id] = visitDone
	}

	for _, task := range tasks {
		if state[task.ID] == visitNew {
			dfs(task.ID)
			if cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
