package learning

import (
	"fmt"
	"math"

	"github.com/mrivera/daypack/internal/domain"
)

// Adjustment is adjustEstimate's result: a calibrated estimate, a 0-100
// confidence score, and a human-readable explanation of which history it
// drew on.
type Adjustment struct {
	AdjustedMinutes int
	Confidence      int
	Reason          string
}

// AdjustEstimate recalibrates a task's raw estimate using global, tag, and
// project completion history (§4.8). The raw estimate on the task is never
// modified. The packer does not call AdjustEstimate: it schedules every task
// for its raw estimate, and AdjustedMinutes is returned to the caller only.
func AdjustEstimate(task *domain.Task, d Data) Adjustment {
	estimated := task.EffectiveEstimateMinutes()

	multiplier := d.GlobalMultiplier
	if multiplier <= 0 {
		multiplier = 1.0
	}
	reason := "overall history"

	if tag, ok := firstTag(sortedTags(task)); ok {
		if countByTag(d.CompletionRecords, tag) >= 3 {
			if tm, ok := d.CategoryMultipliers[tag]; ok {
				multiplier = (multiplier + tm) / 2
				reason = fmt.Sprintf("overall history blended with %q tag history", tag)
			}
		}
	}

	if projectID := projectIDOf(task); projectID != "" {
		if countByProject(d.CompletionRecords, projectID) >= 3 {
			if pm, ok := d.ProjectMultipliers[projectID]; ok {
				multiplier = (multiplier + pm) / 2
				reason += " and project history"
			}
		}
	}

	adjusted := int(math.Round(float64(estimated) * multiplier))
	if adjusted < 15 {
		adjusted = 15
	}
	if max := 3 * estimated; adjusted > max {
		adjusted = max
	}

	return Adjustment{
		AdjustedMinutes: adjusted,
		Confidence:      confidenceFor(len(d.CompletionRecords)),
		Reason:          reason,
	}
}

func confidenceFor(sampleSize int) int {
	switch {
	case sampleSize < 3:
		return 20
	case sampleSize < 5:
		return 40
	case sampleSize < 10:
		return 60
	case sampleSize < 20:
		return 80
	default:
		return 95
	}
}

func countByTag(records []CompletionRecord, tag string) int {
	n := 0
	for _, r := range records {
		for _, t := range r.Tags {
			if t == tag {
				n++
				break
			}
		}
	}
	return n
}

func countByProject(records []CompletionRecord, projectID string) int {
	n := 0
	for _, r := range records {
		if r.ProjectID == projectID {
			n++
		}
	}
	return n
}
