package cleanup

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

var riskWeight = map[RiskLevel]int{
	RiskCritical: 1000,
	RiskHigh:     100,
	RiskMedium:   10,
	RiskLow:      1,
}

var effortWeight = map[Effort]int{
	EffortTrivial: 0,
	EffortSmall:   1,
	EffortMedium:  2,
	EffortLarge:   3,
}

// Priority returns the scheduling priority of a task. Lower values run
// first, so riskier and larger tasks come earlier within a phase.
func Priority(t CleanupTask) int {
	return -(riskWeight[t.RiskLevel] + effortWeight[t.EstimatedEffort])
}

// OrderTasks returns tasks in an order consistent with their dependencies.
//
// It runs Kahn's algorithm: a task becomes ready once every dependency has
// been emitted, and among ready tasks the one with the lowest (phase,
// priority) is emitted next. Ties keep the order in which tasks became
// ready.
//
// A dependency cycle never aborts scheduling. Tasks left over when the
// ready queue drains are appended in input order and a warning diagnostic
// names them. Every input task appears in the output exactly once.
func OrderTasks(tasks []CleanupTask) ([]CleanupTask, []Diagnostic) {
	inDegree := make([]int, len(tasks))
	dependents := make(map[string][]int, len(tasks))
	for i, task := range tasks {
		inDegree[i] = len(task.Dependencies)
		for _, depID := range task.Dependencies {
			dependents[depID] = append(dependents[depID], i)
		}
	}

	var queue []int
	for i := range tasks {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	emitted := make([]bool, len(tasks))
	result := make([]CleanupTask, 0, len(tasks))

	for len(queue) > 0 {
		slices.SortStableFunc(queue, func(a, b int) int {
			if c := cmp.Compare(tasks[a].Phase, tasks[b].Phase); c != 0 {
				return c
			}
			return cmp.Compare(Priority(tasks[a]), Priority(tasks[b]))
		})

		next := queue[0]
		queue = queue[1:]
		emitted[next] = true
		result = append(result, tasks[next])

		for _, i := range dependents[tasks[next].ID] {
			inDegree[i]--
			if inDegree[i] == 0 {
				queue = append(queue, i)
			}
		}
	}

	if len(result) == len(tasks) {
		return result, nil
	}

	var stuck []string
	for i, task := range tasks {
		if !emitted[i] {
			result = append(result, task)
			stuck = append(stuck, task.ID)
		}
	}

	return result, []Diagnostic{{
		Severity: DiagnosticWarning,
		Code:     CodeDependencyCycle,
		Message: fmt.Sprintf("circular dependencies detected: %d of %d tasks could not be ordered and were appended in input order (%s)",
			len(stuck), len(tasks), strings.Join(stuck, ", ")),
		TaskIDs: stuck,
	}}
}
