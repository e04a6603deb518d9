package domain

import "time"

// Milestone is an ordered phase within a Project, used by the analyzer
// for ordering and for imputing implicit dependency edges between
// consecutive milestones.
type Milestone struct {
	ID            string
	ProjectID     string
	Order         int // 1-based
	Title         string
	EstimatedHours float64
	Deadline      *time.Time
	ProgressPct   float64 // 0-100, derived by the caller
}
