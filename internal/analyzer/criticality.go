package analyzer

import (
	"time"

	"github.com/mrivera/daypack/internal/domain"
)

// CriticalityInput holds everything criticality scoring needs beyond the
// task itself.
type CriticalityInput struct {
	Task    *domain.Task
	Project *domain.Project
	Now     time.Time

	MilestoneOrder int // 0 if the task has no milestone
	BlocksCount    int // size of the transitive dependents set
}

// Criticality computes the 0-100 additive, capped score (§4.2).
func Criticality(in CriticalityInput) int {
	score := priorityPoints(in.Task.Priority) +
		deadlineUrgencyPoints(in.Task.DueDate, in.Now) +
		projectBehindPoints(in.Project, in.Now) +
		milestoneOrderPoints(in.MilestoneOrder) +
		blocksOthersPoints(in.BlocksCount)

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func priorityPoints(p domain.Priority) int {
	switch p {
	case domain.PriorityUrgent:
		return 40
	case domain.PriorityHigh:
		return 30
	case domain.PriorityMedium:
		return 15
	case domain.PriorityLow:
		return 5
	default:
		return 0
	}
}

func deadlineUrgencyPoints(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	daysUntil := daysUntilDue(*due, now)
	switch {
	case daysUntil < 0:
		return 30 // overdue
	case daysUntil == 0:
		return 28 // due today
	case daysUntil <= 1:
		return 25
	case daysUntil <= 3:
		return 20
	case daysUntil <= 7:
		return 15
	case daysUntil <= 14:
		return 10
	case daysUntil <= 30:
		return 5
	default:
		return 0
	}
}

// daysUntilDue returns the whole number of days from now's civil date to
// due's civil date (negative when due has already passed).
func daysUntilDue(due, now time.Time) int {
	d := due.Truncate(24 * time.Hour)
	n := now.Truncate(24 * time.Hour)
	return int(d.Sub(n).Hours() / 24)
}

func projectBehindPoints(p *domain.Project, now time.Time) int {
	if p == nil {
		return 0
	}
	expected := p.ExpectedProgressPct(now)
	behindBy := expected - p.ProgressPct
	switch {
	case behindBy > 20:
		return 15
	case behindBy > 10:
		return 10
	case behindBy > 0:
		return 5
	default:
		return 0
	}
}

func milestoneOrderPoints(order int) int {
	switch order {
	case 1:
		return 10
	case 2:
		return 7
	case 3, 4:
		return 4
	default:
		return 0
	}
}

func blocksOthersPoints(count int) int {
	pts := 2 * count
	if pts > 5 {
		return 5
	}
	return pts
}
