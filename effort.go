package gosonar

import (
	"strconv"
	"strings"
)

// minutesPerDay follows the server default of 8 hours per working day
const minutesPerDay = 8 * 60

// EffortMinutes converts an effort such as "1d2h30min" into minutes.
// Empty or malformed values count as 0.
func EffortMinutes(effort string) int {
	effort = strings.TrimSpace(effort)
	total := 0
	for effort != "" {
		i := 0
		for i < len(effort) && effort[i] >= '0' && effort[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0
		}
		n, err := strconv.Atoi(effort[:i])
		if err != nil {
			return 0
		}
		effort = effort[i:]
		switch {
		case strings.HasPrefix(effort, "min"):
			total += n
			effort = effort[len("min"):]
		case strings.HasPrefix(effort, "h"):
			total += n * 60
			effort = effort[1:]
		case strings.HasPrefix(effort, "d"):
			total += n * minutesPerDay
			effort = effort[1:]
		default:
			return 0
		}
		effort = strings.TrimSpace(effort)
	}
	return total
}
