package learning

import (
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/domain"
)

// globalWindow is how many of the most recent completions feed
// globalMultiplier.
const globalWindow = 30

// RecordCompletion appends a new CompletionRecord, trims the FIFO to
// maxRecords, and recomputes every derived statistic in Data (§4.8).
func RecordCompletion(d Data, task *domain.Task, actualMinutes int, now time.Time) Data {
	rec := CompletionRecord{
		TaskID:           task.ID,
		EstimatedMinutes: task.EffectiveEstimateMinutes(),
		ActualMinutes:    actualMinutes,
		CompletedDate:    now,
		Priority:         task.Priority,
		ProjectID:        projectIDOf(task),
		Tags:             sortedTags(task),
	}

	d.CompletionRecords = append(append([]CompletionRecord{}, d.CompletionRecords...), rec)
	if len(d.CompletionRecords) > maxRecords {
		d.CompletionRecords = d.CompletionRecords[len(d.CompletionRecords)-maxRecords:]
	}

	d.GlobalMultiplier = globalMultiplier(d.CompletionRecords)

	if d.CategoryMultipliers == nil {
		d.CategoryMultipliers = make(map[string]float64)
	}
	if d.ProjectMultipliers == nil {
		d.ProjectMultipliers = make(map[string]float64)
	}

	accuracy := ratio(rec.ActualMinutes, rec.EstimatedMinutes)
	if tag, ok := firstTag(rec.Tags); ok {
		d.CategoryMultipliers[tag] = clamp(0.8*existing(d.CategoryMultipliers, tag)+0.2*accuracy, 0.5, 2.5)
	}
	if rec.ProjectID != "" {
		d.ProjectMultipliers[rec.ProjectID] = clamp(0.8*existing(d.ProjectMultipliers, rec.ProjectID)+0.2*accuracy, 0.5, 2.5)
	}

	d.ProductivityByHour, d.ProductivityByDay = updateProductivity(d.ProductivityByHour, d.ProductivityByDay, rec)
	d.PeakHours = peakHours(d.ProductivityByHour)
	d.LastUpdated = now

	return d
}

func existing(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return 1.0
}

// ratio is actual/estimated, guarding against a zero estimate.
func ratio(actual, estimated int) float64 {
	if estimated <= 0 {
		return 1.0
	}
	return float64(actual) / float64(estimated)
}

// globalMultiplier is the exponentially-weighted average of actual/estimated
// over the latest globalWindow records, weight 1/(1+0.1*i) with i=0 for the
// most recent record, bounded to [0.5, 2.0].
func globalMultiplier(records []CompletionRecord) float64 {
	if len(records) == 0 {
		return 1.0
	}
	start := len(records) - globalWindow
	if start < 0 {
		start = 0
	}
	window := records[start:]

	var weightedSum, weightTotal float64
	for i := 0; i < len(window); i++ {
		rec := window[len(window)-1-i] // i=0 is the most recent
		weight := 1.0 / (1.0 + 0.1*float64(i))
		weightedSum += weight * ratio(rec.ActualMinutes, rec.EstimatedMinutes)
		weightTotal += weight
	}
	return clamp(weightedSum/weightTotal, 0.5, 2.0)
}

// efficiency is estimated/actual: >1 means the task took less time than
// estimated, the signal fed into hourly/weekday productivity.
func efficiency(rec CompletionRecord) float64 {
	if rec.ActualMinutes <= 0 {
		return 1.0
	}
	return float64(rec.EstimatedMinutes) / float64(rec.ActualMinutes)
}

func updateProductivity(hourly [24]float64, weekday [7]float64, rec CompletionRecord) ([24]float64, [7]float64) {
	const alpha = 0.1
	sample := efficiency(rec)
	h := rec.CompletedDate.Hour()
	hourly[h] = (1-alpha)*hourly[h] + alpha*sample
	w := int(rec.CompletedDate.Weekday())
	weekday[w] = (1-alpha)*weekday[w] + alpha*sample
	return hourly, weekday
}

// peakHours returns up to the top 3 hours whose productivity is at least
// 0.7 of the best hour's, ranked by productivity descending.
func peakHours(hourly [24]float64) []int {
	max := 0.0
	for _, v := range hourly {
		if v > max {
			max = v
		}
	}
	threshold := 0.7 * max

	type candidate struct {
		hour  int
		value float64
	}
	var candidates []candidate
	for h, v := range hourly {
		if v >= threshold {
			candidates = append(candidates, candidate{h, v})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].value > candidates[j].value })

	n := 3
	if len(candidates) < n {
		n = len(candidates)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = candidates[i].hour
	}
	return out
}

func projectIDOf(t *domain.Task) string {
	if t.ProjectID == nil {
		return ""
	}
	return *t.ProjectID
}

// sortedTags returns t's tag names in lexicographic order — Tags is a set
// (map[string]bool), so this is what gives "the task's first tag" in
// adjustEstimate a deterministic meaning.
func sortedTags(t *domain.Task) []string {
	var out []string
	for tag, set := range t.Tags {
		if set {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func firstTag(tags []string) (string, bool) {
	if len(tags) == 0 {
		return "", false
	}
	return tags[0], true
}
