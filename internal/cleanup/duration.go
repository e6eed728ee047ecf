package cleanup

import (
	"fmt"
	"math"
)

// reviewBuffer inflates raw effort to cover review and testing overhead.
const reviewBuffer = 1.3

const (
	hoursPerDay = 8
	daysPerWeek = 5
)

var effortDays = map[Effort]float64{
	EffortTrivial: 0.25,
	EffortSmall:   0.5,
	EffortMedium:  1,
	EffortLarge:   3,
}

// EstimateDays returns the buffered number of working days for all tasks.
func EstimateDays(tasks []CleanupTask) float64 {
	total := 0.0
	for _, t := range tasks {
		total += effortDays[t.EstimatedEffort]
	}
	return total * reviewBuffer
}

// EstimateDuration formats EstimateDays as hours below one day, days below
// one week and weeks otherwise, always rounding up.
func EstimateDuration(tasks []CleanupTask) string {
	return FormatDays(EstimateDays(tasks))
}

// FormatDays renders a working-day count the way EstimateDuration does.
func FormatDays(days float64) string {
	switch {
	case days < 1:
		return plural(int(math.Ceil(days*hoursPerDay)), "hour")
	case days < daysPerWeek:
		return plural(int(math.Ceil(days)), "day")
	default:
		return plural(int(math.Ceil(days/daysPerWeek)), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
