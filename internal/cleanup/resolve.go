package cleanup

import (
	"fmt"
	"slices"
	"strings"
)

// categoryPrerequisites maps a category to the categories whose tasks must
// complete before any task of that category may start.
var categoryPrerequisites = map[Category][]Category{
	CategoryTypes:          {},
	CategoryMiddleware:     {CategoryTypes},
	CategoryDatabase:       {CategoryTypes},
	CategoryAuthentication: {CategoryTypes, CategoryDatabase},
	CategoryServices:       {CategoryTypes, CategoryDatabase, CategoryAuthentication},
	CategoryAPIRoutes:      {CategoryTypes, CategoryServices, CategoryAuthentication, CategoryMiddleware},
	CategoryComponents:     {CategoryTypes, CategoryServices},
	CategoryErrorHandling:  {CategoryTypes},
	CategoryGeneral:        {},
}

// Prerequisites returns the categories that must be handled before c.
func Prerequisites(c Category) []Category {
	return slices.Clone(categoryPrerequisites[c])
}

// DetectDependencies infers which tasks must complete before others.
//
// Two independent rules contribute edges:
//   - File overlap: when two tasks share a file, A depends on B if B is a
//     types task and A is not, if B sits in an earlier phase, or if B is
//     critical and A is not. The rule is checked for both orderings.
//   - Category precedence: A depends on every task whose category is one of
//     A's prerequisites, whether or not they share files.
//
// Only tasks with at least one dependency get a record. Within a record,
// overlap edges come before precedence edges, each in task order, with
// duplicates removed.
func DetectDependencies(tasks []CleanupTask) []TaskDependency {
	var deps []TaskDependency

	for i := range tasks {
		task := &tasks[i]
		var dependsOn []string

		for j := range tasks {
			other := &tasks[j]
			if task.ID == other.ID {
				continue
			}
			if sharesFile(task, other) && shouldDependOn(task, other) {
				dependsOn = append(dependsOn, other.ID)
			}
		}

		dependsOn = append(dependsOn, categoryDependencies(task, tasks)...)
		dependsOn = dedupe(dependsOn)

		if len(dependsOn) == 0 {
			continue
		}
		deps = append(deps, TaskDependency{
			TaskID:    task.ID,
			DependsOn: dependsOn,
			Reason:    dependencyReason(task, dependsOn, tasks),
		})
	}

	return deps
}

// ApplyDependencies returns a copy of tasks with each task's Dependencies
// extended by its matching record. Existing dependencies are kept first and
// the union is deduplicated.
func ApplyDependencies(tasks []CleanupTask, deps []TaskDependency) []CleanupTask {
	byTask := make(map[string][]string, len(deps))
	for _, d := range deps {
		byTask[d.TaskID] = append(byTask[d.TaskID], d.DependsOn...)
	}

	out := make([]CleanupTask, len(tasks))
	for i, task := range tasks {
		merged := make([]string, 0, len(task.Dependencies)+len(byTask[task.ID]))
		merged = append(merged, task.Dependencies...)
		merged = append(merged, byTask[task.ID]...)
		task.Dependencies = dedupe(merged)
		out[i] = task
	}
	return out
}

// shouldDependOn reports whether a must wait for b. It is deliberately
// asymmetric; callers evaluate it for both orderings of a pair.
func shouldDependOn(a, b *CleanupTask) bool {
	if b.Category == CategoryTypes && a.Category != CategoryTypes {
		return true
	}
	if b.Phase < a.Phase {
		return true
	}
	if b.RiskLevel == RiskCritical && a.RiskLevel != RiskCritical {
		return true
	}
	return false
}

func sharesFile(a, b *CleanupTask) bool {
	for _, f := range a.AffectedFiles {
		if slices.Contains(b.AffectedFiles, f) {
			return true
		}
	}
	return false
}

func categoryDependencies(task *CleanupTask, all []CleanupTask) []string {
	required := categoryPrerequisites[task.Category]
	if len(required) == 0 {
		return nil
	}

	var out []string
	for i := range all {
		other := &all[i]
		if other.ID == task.ID {
			continue
		}
		if slices.Contains(required, other.Category) {
			out = append(out, other.ID)
		}
	}
	return out
}

// dependencyReason explains each dependency in task order. Repeated
// reasons are collapsed so a task gated on ten types tasks reads once.
func dependencyReason(task *CleanupTask, dependsOn []string, all []CleanupTask) string {
	var reasons []string
	for i := range all {
		dep := &all[i]
		if !slices.Contains(dependsOn, dep.ID) {
			continue
		}

		var reason string
		switch {
		case dep.Category == CategoryTypes:
			reason = "Depends on type definitions"
		case dep.Phase < task.Phase:
			reason = fmt.Sprintf("Must complete %s changes first", dep.Category)
		default:
			reason = fmt.Sprintf("Shares files with %s task", dep.Category)
		}
		if !slices.Contains(reasons, reason) {
			reasons = append(reasons, reason)
		}
	}

	if len(reasons) == 0 {
		return "No dependencies"
	}
	return strings.Join(reasons, "; ")
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
