package cleanup

import "fmt"

// DiagnosticSeverity classifies a Diagnostic.
type DiagnosticSeverity string

const (
	DiagnosticInfo    DiagnosticSeverity = "info"
	DiagnosticWarning DiagnosticSeverity = "warning"
	DiagnosticError   DiagnosticSeverity = "error"
)

// Diagnostic codes.
const (
	CodeDependencyCycle  = "dependency_cycle"
	CodeDuplicateTaskID  = "duplicate_task_id"
	CodeDanglingDep      = "dangling_dependency"
	CodeSelfDependency   = "self_dependency"
	CodePhaseMismatch    = "phase_mismatch"
	CodePhaseOutOfRange  = "phase_out_of_range"
	CodeOrderViolation   = "order_violation"
	CodeRiskInconsistent = "risk_inconsistent"
	CodePhaseGrouping    = "phase_grouping"
)

// Diagnostic is a structured, non-fatal finding attached to a plan or to a
// validation result.
type Diagnostic struct {
	Severity DiagnosticSeverity `json:"severity" yaml:"severity"`
	Code     string             `json:"code" yaml:"code"`
	Message  string             `json:"message" yaml:"message"`
	TaskIDs  []string           `json:"taskIds,omitempty" yaml:"taskIds,omitempty"`
}

// IsError returns true for error-severity diagnostics.
func (d Diagnostic) IsError() bool {
	return d.Severity == DiagnosticError
}

// IsWarning returns true for warning-severity diagnostics.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == DiagnosticWarning
}

// String formats the diagnostic for logs and terminal output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}
