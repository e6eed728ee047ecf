package cleanup

import (
	"fmt"
	"path"
	"strings"
)

// Issue effort weights, summed per task and re-bucketed by bucketEffort.
var issueEffortWeight = map[Effort]int{
	EffortTrivial: 1,
	EffortSmall:   2,
	EffortMedium:  4,
	EffortLarge:   8,
}

var issueStepsPreamble = []string{
	"Review all related issues and their recommendations",
	"Create or update tests for affected functionality",
}

var stepsSuffix = []string{
	"Run tests to verify changes",
	"Update documentation if needed",
}

// Synthesize converts issues and patterns into cleanup tasks.
//
// Issues are flattened critical-first, grouped by file and then by category,
// and every non-empty (file, category) group becomes one task. Each pattern
// becomes one task of its own. Issue tasks come first, in first-seen group
// order, followed by pattern tasks in input order. Dependencies are left
// empty; see DetectDependencies.
func Synthesize(classified ClassifiedIssues, patterns []IssuePattern, ids IDGenerator) []CleanupTask {
	if ids == nil {
		ids = UUIDGenerator{}
	}

	var tasks []CleanupTask

	byFile := newOrderedGroups[string, Issue]()
	for _, issue := range classified.All() {
		byFile.add(issue.File, issue)
	}
	byFile.each(func(file string, fileIssues []Issue) {
		byCategory := newOrderedGroups[Category, Issue]()
		for _, issue := range fileIssues {
			byCategory.add(issue.Category, issue)
		}
		byCategory.each(func(category Category, group []Issue) {
			tasks = append(tasks, taskFromIssues(ids.NextID(), file, category, group))
		})
	})

	for _, pattern := range patterns {
		tasks = append(tasks, taskFromPattern(ids.NextID(), pattern))
	}

	return tasks
}

func taskFromIssues(id, file string, category Category, issues []Issue) CleanupTask {
	highest := highestSeverity(issues)

	related := make([]string, 0, len(issues))
	for _, issue := range issues {
		related = append(related, issue.ID)
	}

	return CleanupTask{
		ID:              id,
		Title:           fmt.Sprintf("Fix %d %s issue(s) in %s", len(issues), category, path.Base(file)),
		Description:     issueTaskDescription(issues),
		Category:        category,
		RelatedIssues:   related,
		Dependencies:    []string{},
		EstimatedEffort: aggregateEffort(issues),
		RiskLevel:       severityToRisk(highest),
		RequiresTests:   highest == SeverityCritical || highest == SeverityHigh,
		ActionSteps:     issueActionSteps(issues),
		AffectedFiles:   []string{file},
		Phase:           PhaseFor(category),
	}
}

func taskFromPattern(id string, pattern IssuePattern) CleanupTask {
	related := make([]string, 0, len(pattern.RelatedIssues))
	for _, issue := range pattern.RelatedIssues {
		related = append(related, issue.ID)
	}

	files := make([]string, len(pattern.AffectedFiles))
	copy(files, pattern.AffectedFiles)

	return CleanupTask{
		ID:    id,
		Title: fmt.Sprintf("Address pattern: %s", pattern.PatternName),
		Description: fmt.Sprintf("%s\n\nThis pattern affects %d locations across %d files.",
			pattern.Description, pattern.Occurrences, len(pattern.AffectedFiles)),
		Category:        pattern.Category,
		RelatedIssues:   related,
		Dependencies:    []string{},
		EstimatedEffort: patternEffort(pattern.Occurrences),
		RiskLevel:       patternRisk(pattern.Occurrences),
		RequiresTests:   pattern.Occurrences > 5,
		ActionSteps: []string{
			fmt.Sprintf("Review all %d occurrences of this pattern", pattern.Occurrences),
			pattern.RecommendedAction,
			"Update affected files systematically",
			stepsSuffix[0],
			stepsSuffix[1],
		},
		AffectedFiles: files,
		Phase:         PhaseFor(pattern.Category),
	}
}

// highestSeverity walks severities from critical down and returns the first
// one present in the group.
func highestSeverity(issues []Issue) Severity {
	for _, severity := range severityOrder {
		for _, issue := range issues {
			if issue.Severity == severity {
				return severity
			}
		}
	}
	return SeverityLow
}

func severityToRisk(s Severity) RiskLevel {
	switch s {
	case SeverityCritical:
		return RiskCritical
	case SeverityHigh:
		return RiskHigh
	case SeverityMedium:
		return RiskMedium
	default:
		return RiskLow
	}
}

func aggregateEffort(issues []Issue) Effort {
	total := 0
	for _, issue := range issues {
		total += issueEffortWeight[issue.EstimatedEffort]
	}
	return bucketEffort(total)
}

func bucketEffort(total int) Effort {
	switch {
	case total <= 2:
		return EffortTrivial
	case total <= 4:
		return EffortSmall
	case total <= 8:
		return EffortMedium
	default:
		return EffortLarge
	}
}

func patternEffort(occurrences int) Effort {
	switch {
	case occurrences <= 3:
		return EffortSmall
	case occurrences <= 10:
		return EffortMedium
	default:
		return EffortLarge
	}
}

// patternRisk never yields critical: a pattern's risk comes from its reach,
// not from the severity of any single finding.
func patternRisk(occurrences int) RiskLevel {
	switch {
	case occurrences > 20:
		return RiskHigh
	case occurrences > 10:
		return RiskMedium
	default:
		return RiskLow
	}
}

func issueTaskDescription(issues []Issue) string {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, "- "+issue.Description)
	}
	return "This task addresses the following issues:\n\n" + strings.Join(lines, "\n")
}

func issueActionSteps(issues []Issue) []string {
	steps := make([]string, 0, len(issueStepsPreamble)+len(issues)+len(stepsSuffix))
	steps = append(steps, issueStepsPreamble...)
	for _, issue := range issues {
		if issue.Recommendation != "" {
			steps = append(steps, issue.Recommendation)
		}
	}
	steps = append(steps, stepsSuffix...)
	return steps
}
