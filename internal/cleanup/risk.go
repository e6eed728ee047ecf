package cleanup

// highRiskShare is the fraction of high-risk tasks above which the plan as a
// whole is rated high risk.
const highRiskShare = 0.3

var mitigationStrategies = []string{
	"Create comprehensive test coverage before making changes",
	"Implement changes incrementally with frequent testing",
	"Use feature flags for risky changes",
	"Maintain rollback capability for all changes",
	"Conduct code reviews for all high-risk tasks",
	"Test in staging environment before production deployment",
}

// MitigationStrategies returns the fixed mitigation guidance attached to
// every risk assessment.
func MitigationStrategies() []string {
	out := make([]string, len(mitigationStrategies))
	copy(out, mitigationStrategies)
	return out
}

// AssessRisk rates the plan as a whole.
//
// The decision is taken in order: any critical task makes the plan
// critical; more than 30% high-risk tasks makes it high; at least one
// high-risk task makes it medium; otherwise it is low.
func AssessRisk(tasks []CleanupTask) RiskAssessment {
	highRisk := make([]CleanupTask, 0)
	criticalCount, highCount := 0, 0

	for _, t := range tasks {
		switch t.RiskLevel {
		case RiskCritical:
			criticalCount++
			highRisk = append(highRisk, t)
		case RiskHigh:
			highCount++
			highRisk = append(highRisk, t)
		}
	}

	var overall RiskLevel
	switch {
	case criticalCount > 0:
		overall = RiskCritical
	case float64(highCount) > float64(len(tasks))*highRiskShare:
		overall = RiskHigh
	case highCount > 0:
		overall = RiskMedium
	default:
		overall = RiskLow
	}

	return RiskAssessment{
		OverallRisk:          overall,
		HighRiskTasks:        highRisk,
		MitigationStrategies: MitigationStrategies(),
	}
}
