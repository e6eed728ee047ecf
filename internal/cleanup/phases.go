package cleanup

// Phase numbers.
const (
	PhaseFoundation     = 1
	PhaseInfrastructure = 2
	PhaseServices       = 3
	PhaseAPIRoutes      = 4
	PhaseComponents     = 5
	PhasePolish         = 6

	// NumPhases is the number of fixed remediation phases.
	NumPhases = 6
)

var categoryPhase = map[Category]int{
	CategoryTypes:          PhaseFoundation,
	CategoryDatabase:       PhaseInfrastructure,
	CategoryAuthentication: PhaseInfrastructure,
	CategoryMiddleware:     PhaseInfrastructure,
	CategoryErrorHandling:  PhaseInfrastructure,
	CategoryServices:       PhaseServices,
	CategoryAPIRoutes:      PhaseAPIRoutes,
	CategoryComponents:     PhaseComponents,
	CategoryGeneral:        PhasePolish,
}

var phaseNames = [NumPhases]string{
	"Foundation",
	"Infrastructure",
	"Services",
	"API Routes",
	"Components",
	"Polish",
}

var phaseDescriptions = [NumPhases]string{
	"Establish type definitions and core interfaces",
	"Set up infrastructure: database, auth, middleware, error handling",
	"Refactor service layer and business logic",
	"Clean up API routes and endpoints",
	"Improve component structure and patterns",
	"Final polish: naming, formatting, documentation",
}

// PhaseFor returns the phase a category belongs to. Unknown categories
// fall into the Polish phase.
func PhaseFor(c Category) int {
	if p, ok := categoryPhase[c]; ok {
		return p
	}
	return PhasePolish
}

// PhaseName returns the display name of a phase, or "" when out of range.
func PhaseName(phase int) string {
	if phase < 1 || phase > NumPhases {
		return ""
	}
	return phaseNames[phase-1]
}

// PhaseDescription returns the description of a phase, or "" when out of range.
func PhaseDescription(phase int) string {
	if phase < 1 || phase > NumPhases {
		return ""
	}
	return phaseDescriptions[phase-1]
}

// GroupIntoPhases groups already ordered tasks by phase. Within a phase the
// input order is kept. Empty phases are omitted and phases come out in
// ascending order.
func GroupIntoPhases(ordered []CleanupTask) []CleanupPhase {
	byPhase := newOrderedGroups[int, CleanupTask]()
	for _, task := range ordered {
		byPhase.add(task.Phase, task)
	}

	phases := make([]CleanupPhase, 0, NumPhases)
	for n := 1; n <= NumPhases; n++ {
		tasks := byPhase.get(n)
		if len(tasks) == 0 {
			continue
		}
		phases = append(phases, CleanupPhase{
			PhaseNumber: n,
			PhaseName:   PhaseName(n),
			Tasks:       tasks,
			Description: PhaseDescription(n),
		})
	}
	return phases
}
