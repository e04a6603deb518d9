package analyzer

import (
	"testing"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdays = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}

func TestAnalyzeTask_EarliestStartFromPredecessor(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	predDone := today.AddDate(0, 0, 2)

	task := &domain.Task{ID: "b", BlockedBy: []string{"a"}, EstimatedMinutes: 30}

	st := AnalyzeTask(Input{
		Task:        task,
		WorkingDays: weekdays,
		Today:       today,
		PredecessorCompletionTimes: map[string]time.Time{
			"a": predDone,
		},
	})

	assert.True(t, st.EarliestStart.Equal(predDone))
}

func TestAnalyzeTask_IdealCompletionDate(t *testing.T) {
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC) // Wednesday

	task := &domain.Task{ID: "t", DueDate: &due, Priority: domain.PriorityHigh, EstimatedMinutes: 60}

	st := AnalyzeTask(Input{Task: task, WorkingDays: weekdays, Today: today})

	require.NotNil(t, st.IdealCompletionDate)
	// buffer = 2(base)+1(high) = 3 working days back from 2025-03-12 (Wed)
	// Wed -> Tue(11) -> Mon(10) -> Fri(7)
	assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), *st.IdealCompletionDate)
}

func TestAnalyzeTask_SplitSessionBounds(t *testing.T) {
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{ID: "t", EstimatedMinutes: 180}

	st := AnalyzeTask(Input{Task: task, WorkingDays: weekdays, Today: today})

	assert.True(t, st.CanBeSplit)
	assert.Equal(t, 30, st.MinimumSessionMinutes)
	assert.Equal(t, 120, st.MaximumSessionMinutes)
}

func TestSort_OrdersByCriticalityThenDependencyDepth(t *testing.T) {
	high := &domain.SmartTask{Task: &domain.Task{ID: "high"}, Criticality: 80, DependencyDepth: 1}
	low := &domain.SmartTask{Task: &domain.Task{ID: "low"}, Criticality: 20, DependencyDepth: 0}

	tasks := []*domain.SmartTask{low, high}
	Sort(tasks, nil)

	assert.Equal(t, "high", tasks[0].ID())
	assert.Equal(t, "low", tasks[1].ID())
}
