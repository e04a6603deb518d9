// Package learning implements C8: calibrating future time estimates from
// how long tasks actually took, and surfacing when in the day/week the
// user is most productive (§4.8).
package learning

import (
	"time"

	"github.com/mrivera/daypack/internal/domain"
)

// maxRecords bounds the FIFO completion history kept in Data.
const maxRecords = 500

// CompletionRecord is one observed estimate-vs-actual data point.
type CompletionRecord struct {
	TaskID           string
	EstimatedMinutes int
	ActualMinutes    int
	CompletedDate    time.Time
	Priority         domain.Priority
	ProjectID        string // "" if the task had none
	Tags             []string
}

// Data is the single long-lived state the engine keeps between runs — a
// blob loaded once at process start and saved after each RecordCompletion.
type Data struct {
	CompletionRecords   []CompletionRecord
	GlobalMultiplier    float64
	CategoryMultipliers map[string]float64 // keyed by tag
	ProjectMultipliers  map[string]float64 // keyed by project ID
	ProductivityByHour  [24]float64
	ProductivityByDay   [7]float64
	PeakHours           []int
	LastUpdated         time.Time
}

// NewData returns a neutral starting point: multiplier 1.0 everywhere so
// the first few completions don't get amplified by a zero-value baseline.
func NewData() Data {
	d := Data{
		GlobalMultiplier:    1.0,
		CategoryMultipliers: make(map[string]float64),
		ProjectMultipliers:  make(map[string]float64),
	}
	for i := range d.ProductivityByHour {
		d.ProductivityByHour[i] = 1.0
	}
	for i := range d.ProductivityByDay {
		d.ProductivityByDay[i] = 1.0
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
