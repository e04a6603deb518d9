package domain

import "time"

// Project aggregates milestones and tasks.
type Project struct {
	ID         string
	Name       string
	Deadline   *time.Time
	StartDate  time.Time
	ProgressPct float64 // 0-100, derived by the caller
	Tags       map[string]bool
}

// ExpectedProgressPct returns elapsed/total of [StartDate..Deadline],
// clamped to [0,100]. Returns 0 if there's no deadline or the project
// hasn't started yet.
func (p *Project) ExpectedProgressPct(now time.Time) float64 {
	if p.Deadline == nil {
		return 0
	}
	total := p.Deadline.Sub(p.StartDate).Hours()
	if total <= 0 {
		return 0
	}
	elapsed := now.Sub(p.StartDate).Hours()
	pct := elapsed / total * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
