// Package cleanup turns classified code-quality issues into an ordered
// remediation plan.
//
// The planning pipeline runs strictly in sequence:
//   - Synthesis: Issue groups and IssuePatterns become CleanupTasks
//   - Resolution: dependencies between tasks are inferred from shared files
//     and a fixed category precedence table
//   - Scheduling: Kahn's algorithm with (phase, priority) tie-breaking
//   - Partitioning: ordered tasks are grouped into six named phases
//
// Risk assessment and duration estimation then run over the ordered list.
//
// Every function in this package is pure: no I/O, no logging, no shared
// state. Problems that the reference tooling would print (dependency cycles)
// are returned as Diagnostics on the plan instead.
package cleanup

// -----------------------------------------------------------------------------
// Enumerations
// -----------------------------------------------------------------------------

// Category groups issues and tasks by the architectural area they touch.
type Category string

const (
	CategoryTypes          Category = "types"
	CategoryMiddleware     Category = "middleware"
	CategoryDatabase       Category = "database"
	CategoryAuthentication Category = "authentication"
	CategoryServices       Category = "services"
	CategoryAPIRoutes      Category = "api-routes"
	CategoryComponents     Category = "components"
	CategoryErrorHandling  Category = "error-handling"
	CategoryGeneral        Category = "general"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if this is a recognized category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTypes, CategoryMiddleware, CategoryDatabase, CategoryAuthentication,
		CategoryServices, CategoryAPIRoutes, CategoryComponents, CategoryErrorHandling,
		CategoryGeneral:
		return true
	default:
		return false
	}
}

// ValidCategories returns every recognized category in phase order.
func ValidCategories() []Category {
	return []Category{
		CategoryTypes,
		CategoryDatabase,
		CategoryAuthentication,
		CategoryMiddleware,
		CategoryErrorHandling,
		CategoryServices,
		CategoryAPIRoutes,
		CategoryComponents,
		CategoryGeneral,
	}
}

// Severity is the severity of a single issue finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// severityOrder lists severities from highest to lowest.
var severityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid returns true if this is a recognized severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// Rank returns 4 for critical down to 1 for low, and 0 for unknown values.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ValidSeverities returns every severity from highest to lowest.
func ValidSeverities() []Severity {
	out := make([]Severity, len(severityOrder))
	copy(out, severityOrder)
	return out
}

// Effort is a coarse estimate of how much work a fix takes.
type Effort string

const (
	EffortTrivial Effort = "trivial"
	EffortSmall   Effort = "small"
	EffortMedium  Effort = "medium"
	EffortLarge   Effort = "large"
)

// String returns the string representation of the effort.
func (e Effort) String() string {
	return string(e)
}

// IsValid returns true if this is a recognized effort level.
func (e Effort) IsValid() bool {
	switch e {
	case EffortTrivial, EffortSmall, EffortMedium, EffortLarge:
		return true
	default:
		return false
	}
}

// ValidEfforts returns every effort level from smallest to largest.
func ValidEfforts() []Effort {
	return []Effort{EffortTrivial, EffortSmall, EffortMedium, EffortLarge}
}

// RiskLevel is the risk of making a change.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid returns true if this is a recognized risk level.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// ValidRiskLevels returns every risk level from lowest to highest.
func ValidRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
}

// -----------------------------------------------------------------------------
// Input
// -----------------------------------------------------------------------------

// Issue is a single file-scoped defect finding produced by an upstream scanner.
type Issue struct {
	ID              string   `json:"id" yaml:"id" validate:"required"`
	File            string   `json:"file" yaml:"file" validate:"required"`
	Category        Category `json:"category" yaml:"category" validate:"required,oneof=types middleware database authentication services api-routes components error-handling general"`
	Severity        Severity `json:"severity" yaml:"severity" validate:"required,oneof=critical high medium low"`
	EstimatedEffort Effort   `json:"estimatedEffort" yaml:"estimatedEffort" validate:"required,oneof=trivial small medium large"`
	Description     string   `json:"description" yaml:"description"`
	Recommendation  string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// ClassifiedIssues holds issues partitioned by severity.
// The union of the four buckets is the full issue set for a run.
type ClassifiedIssues struct {
	Critical []Issue `json:"critical" yaml:"critical" validate:"dive"`
	High     []Issue `json:"high" yaml:"high" validate:"dive"`
	Medium   []Issue `json:"medium" yaml:"medium" validate:"dive"`
	Low      []Issue `json:"low" yaml:"low" validate:"dive"`
}

// All flattens the buckets in critical, high, medium, low order.
func (c ClassifiedIssues) All() []Issue {
	out := make([]Issue, 0, c.Len())
	out = append(out, c.Critical...)
	out = append(out, c.High...)
	out = append(out, c.Medium...)
	out = append(out, c.Low...)
	return out
}

// Len returns the total number of issues across all buckets.
func (c ClassifiedIssues) Len() int {
	return len(c.Critical) + len(c.High) + len(c.Medium) + len(c.Low)
}

// Classify buckets issues by their severity, preserving input order within
// each bucket. Issues with an unrecognized severity land in Low.
func Classify(issues []Issue) ClassifiedIssues {
	var out ClassifiedIssues
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			out.Critical = append(out.Critical, issue)
		case SeverityHigh:
			out.High = append(out.High, issue)
		case SeverityMedium:
			out.Medium = append(out.Medium, issue)
		default:
			out.Low = append(out.Low, issue)
		}
	}
	return out
}

// IssuePattern is a systemic finding spanning many files.
type IssuePattern struct {
	PatternName       string   `json:"patternName" yaml:"patternName" validate:"required"`
	Description       string   `json:"description" yaml:"description"`
	Category          Category `json:"category" yaml:"category" validate:"required,oneof=types middleware database authentication services api-routes components error-handling general"`
	Occurrences       int      `json:"occurrences" yaml:"occurrences" validate:"gte=1"`
	AffectedFiles     []string `json:"affectedFiles" yaml:"affectedFiles"`
	RelatedIssues     []Issue  `json:"relatedIssues" yaml:"relatedIssues" validate:"dive"`
	RecommendedAction string   `json:"recommendedAction" yaml:"recommendedAction"`
}

// -----------------------------------------------------------------------------
// Output
// -----------------------------------------------------------------------------

// CleanupTask is the unit of remediation work.
//
// Tasks are created once by Synthesize. Only the Dependencies field changes
// afterwards, when ApplyDependencies folds the resolved edges back in.
// Phase is fixed at creation and is always PhaseFor(Category).
type CleanupTask struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	Category        Category  `json:"category" yaml:"category"`
	RelatedIssues   []string  `json:"relatedIssues" yaml:"relatedIssues"`
	Dependencies    []string  `json:"dependencies" yaml:"dependencies"`
	EstimatedEffort Effort    `json:"estimatedEffort" yaml:"estimatedEffort"`
	RiskLevel       RiskLevel `json:"riskLevel" yaml:"riskLevel"`
	RequiresTests   bool      `json:"requiresTests" yaml:"requiresTests"`
	ActionSteps     []string  `json:"actionSteps" yaml:"actionSteps"`
	AffectedFiles   []string  `json:"affectedFiles" yaml:"affectedFiles"`
	Phase           int       `json:"phase" yaml:"phase"`
}

// HasDependencies returns true if this task must wait for other tasks.
func (t *CleanupTask) HasDependencies() bool {
	return len(t.Dependencies) > 0
}

// TaskDependency records why a task depends on others.
type TaskDependency struct {
	TaskID    string   `json:"taskId" yaml:"taskId"`
	DependsOn []string `json:"dependsOn" yaml:"dependsOn"`
	Reason    string   `json:"reason" yaml:"reason"`
}

// CleanupPhase is a read-only view over the tasks of one phase,
// in scheduled order.
type CleanupPhase struct {
	PhaseNumber int           `json:"phaseNumber" yaml:"phaseNumber"`
	PhaseName   string        `json:"phaseName" yaml:"phaseName"`
	Tasks       []CleanupTask `json:"tasks" yaml:"tasks"`
	Description string        `json:"description" yaml:"description"`
}

// RiskAssessment aggregates per-task risk into a plan-wide verdict.
type RiskAssessment struct {
	OverallRisk          RiskLevel     `json:"overallRisk" yaml:"overallRisk"`
	HighRiskTasks        []CleanupTask `json:"highRiskTasks" yaml:"highRiskTasks"`
	MitigationStrategies []string      `json:"mitigationStrategies" yaml:"mitigationStrategies"`
}

// CleanupPlan is the root output of GeneratePlan.
type CleanupPlan struct {
	// Tasks is topologically ordered whenever the dependency graph is acyclic.
	Tasks             []CleanupTask  `json:"tasks" yaml:"tasks"`
	Phases            []CleanupPhase `json:"phases" yaml:"phases"`
	EstimatedDuration string         `json:"estimatedDuration" yaml:"estimatedDuration"`
	RiskAssessment    RiskAssessment `json:"riskAssessment" yaml:"riskAssessment"`

	// Dependencies holds the edge records behind each task's Dependencies,
	// with a human-readable reason.
	Dependencies []TaskDependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// Diagnostics carries non-fatal findings such as dependency cycles.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// TaskByID returns the task with the given id, or nil.
func (p *CleanupPlan) TaskByID(id string) *CleanupTask {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// HasWarnings returns true if any diagnostic is a warning or worse.
func (p *CleanupPlan) HasWarnings() bool {
	for _, d := range p.Diagnostics {
		if d.Severity != DiagnosticInfo {
			return true
		}
	}
	return false
}
