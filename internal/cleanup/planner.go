package cleanup

// Planner generates cleanup plans. A Planner is immutable once built and is
// safe for concurrent use.
type Planner struct {
	newIDs func() IDGenerator
}

// Option configures a Planner.
type Option func(*Planner)

// WithIDGenerator sets the factory used to obtain an IDGenerator. The
// factory is called once per GeneratePlan call.
func WithIDGenerator(factory func() IDGenerator) Option {
	return func(p *Planner) {
		if factory != nil {
			p.newIDs = factory
		}
	}
}

// WithSequentialIDs makes every plan number its tasks "<prefix>-1",
// "<prefix>-2", ... starting afresh for each plan, so identical input yields
// identical output.
func WithSequentialIDs(prefix string) Option {
	return WithIDGenerator(func() IDGenerator {
		return NewSequentialGenerator(prefix)
	})
}

// NewPlanner returns a Planner that uses random UUID task ids unless
// configured otherwise.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		newIDs: func() IDGenerator { return UUIDGenerator{} },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GeneratePlan builds a complete plan from classified issues and patterns.
// Empty input yields an empty, low-risk plan.
func (p *Planner) GeneratePlan(classified ClassifiedIssues, patterns []IssuePattern) *CleanupPlan {
	tasks := Synthesize(classified, patterns, p.newIDs())

	deps := DetectDependencies(tasks)
	tasks = ApplyDependencies(tasks, deps)

	ordered, diagnostics := OrderTasks(tasks)

	return &CleanupPlan{
		Tasks:             ordered,
		Phases:            GroupIntoPhases(ordered),
		EstimatedDuration: EstimateDuration(ordered),
		RiskAssessment:    AssessRisk(ordered),
		Dependencies:      deps,
		Diagnostics:       diagnostics,
	}
}

var defaultPlanner = NewPlanner()

// GeneratePlan builds a plan with the default Planner (random UUID ids).
func GeneratePlan(classified ClassifiedIssues, patterns []IssuePattern) *CleanupPlan {
	return defaultPlanner.GeneratePlan(classified, patterns)
}
