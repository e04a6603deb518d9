package analyzer

import (
	"testing"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCriticality_PriorityOnly(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	task := &domain.Task{Priority: domain.PriorityUrgent}

	score := Criticality(CriticalityInput{Task: task, Now: now})
	assert.Equal(t, 40, score)
}

func TestCriticality_OverdueAddsMax(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -3)
	task := &domain.Task{Priority: domain.PriorityLow, DueDate: &overdue}

	score := Criticality(CriticalityInput{Task: task, Now: now})
	assert.Equal(t, 5+30, score)
}

func TestCriticality_DueTodayVsTomorrow(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	scoreToday := Criticality(CriticalityInput{Task: &domain.Task{DueDate: &today}, Now: now})
	scoreTomorrow := Criticality(CriticalityInput{Task: &domain.Task{DueDate: &tomorrow}, Now: now})

	assert.Equal(t, 28, scoreToday)
	assert.Equal(t, 25, scoreTomorrow)
}

func TestCriticality_CappedAt100(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	overdue := now.AddDate(0, 0, -10)
	project := &domain.Project{
		StartDate:   now.AddDate(0, -2, 0),
		Deadline:    timePtr(now.AddDate(0, 0, 1)),
		ProgressPct: 0,
	}
	score := Criticality(CriticalityInput{
		Task:           &domain.Task{Priority: domain.PriorityUrgent, DueDate: &overdue},
		Project:        project,
		Now:            now,
		MilestoneOrder: 1,
		BlocksCount:    10,
	})
	assert.Equal(t, 100, score)
}

func TestCriticality_ProjectBehindSchedule(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	project := &domain.Project{
		StartDate:   now.AddDate(0, 0, -50),
		Deadline:    timePtr(now.AddDate(0, 0, 50)), // 50% elapsed
		ProgressPct: 10,                             // way behind
	}
	score := Criticality(CriticalityInput{Task: &domain.Task{}, Project: project, Now: now})
	assert.Equal(t, 15, score) // behind by >20% of expected progress
}

func TestCriticality_BlocksOthersCappedAtFive(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	score := Criticality(CriticalityInput{Task: &domain.Task{}, Now: now, BlocksCount: 10})
	assert.Equal(t, 5, score)
}

func timePtr(t time.Time) *time.Time { return &t }
