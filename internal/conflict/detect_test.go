package conflict

import (
	"testing"
	"time"

	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdays = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}

func newState() *domain.SchedulerState {
	return domain.NewSchedulerState()
}

func addSmartTask(state *domain.SchedulerState, task *domain.Task) *domain.SmartTask {
	st := &domain.SmartTask{Task: task}
	state.SmartTasks[task.ID] = st
	state.Unscheduled[task.ID] = true
	return st
}

func addBlock(state *domain.SchedulerState, taskID string, date time.Time, start, end int) {
	state.Blocks = append(state.Blocks, domain.ScheduledBlock{
		TaskID: taskID, Date: date, StartMinute: start, EndMinute: end,
	})
	state.MarkScheduled(taskID)
}

func TestDetectCollisions(t *testing.T) {
	state := newState()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	addBlock(state, "a", day, 540, 600)
	addBlock(state, "b", day, 570, 630)

	conflicts := detectCollisions(state)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictCollision, conflicts[0].Type)
	assert.Equal(t, domain.SeverityCritical, conflicts[0].Severity)
	assert.True(t, conflicts[0].AutoResolvable)
}

func TestDetectOverloads_WarningVsCritical(t *testing.T) {
	cfg := config.NewDefaultConfig(time.Now(), time.Now())
	state := newState()
	state.CapacityByDate["2025-03-10"] = &domain.DayCapacity{
		TotalMinutes: 480, ScheduledMinutes: 500, // 20 min over, under 120 max
	}
	state.CapacityByDate["2025-03-11"] = &domain.DayCapacity{
		TotalMinutes: 480, ScheduledMinutes: 480 + 200, // 200 over max of 120
	}

	conflicts := detectOverloads(state, &cfg)
	require.Len(t, conflicts, 2)
	for _, c := range conflicts {
		if c.AffectedDates[0] == "2025-03-10" {
			assert.Equal(t, domain.SeverityWarning, c.Severity)
			assert.True(t, c.AutoResolvable)
		} else {
			assert.Equal(t, domain.SeverityCritical, c.Severity)
			assert.False(t, c.AutoResolvable)
		}
	}
}

func TestDetectDeadlineMisses_PastDueUnscheduled(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -2)
	state := newState()
	addSmartTask(state, &domain.Task{ID: "t", DueDate: &due})

	conflicts := detectDeadlineMisses(state, now)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.SeverityCritical, conflicts[0].Severity)
	assert.False(t, conflicts[0].AutoResolvable)
}

func TestDetectDeadlineMisses_ScheduledButFinishesLate(t *testing.T) {
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	state := newState()
	addSmartTask(state, &domain.Task{ID: "t", DueDate: &due})
	addBlock(state, "t", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 660, 720) // ends 12:00, due 10:00

	conflicts := detectDeadlineMisses(state, now)
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].AutoResolvable)
}

func TestDetectDependencyViolations(t *testing.T) {
	state := newState()
	addSmartTask(state, &domain.Task{ID: "a"})
	addSmartTask(state, &domain.Task{ID: "b", BlockedBy: []string{"a"}})
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	addBlock(state, "a", day, 600, 660)
	addBlock(state, "b", day, 540, 600) // starts before its predecessor

	conflicts := detectDependencyViolations(state)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.SeverityCritical, conflicts[0].Severity)
}

func TestDetectDependencyViolations_MissingPredecessorIsWarning(t *testing.T) {
	state := newState()
	addSmartTask(state, &domain.Task{ID: "a"})
	addSmartTask(state, &domain.Task{ID: "b", BlockedBy: []string{"a"}})
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	addBlock(state, "b", day, 540, 600)

	conflicts := detectDependencyViolations(state)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.SeverityWarning, conflicts[0].Severity)
}

func TestDetectInsufficientBuffer(t *testing.T) {
	cfg := config.NewDefaultConfig(time.Now(), time.Now())
	cfg.WorkingDays = weekdays
	state := newState()
	due := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC) // Monday
	addSmartTask(state, &domain.Task{ID: "t", DueDate: &due})
	addBlock(state, "t", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 540, 600) // same day

	conflicts := detectInsufficientBuffer(state, &cfg)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.SeverityInfo, conflicts[0].Severity)
}

func TestDetectAll_Deterministic(t *testing.T) {
	cfg := config.NewDefaultConfig(time.Now(), time.Now())
	cfg.WorkingDays = weekdays
	state := newState()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	addSmartTask(state, &domain.Task{ID: "a"})
	addBlock(state, "a", day, 540, 600)

	first := DetectAll(state, &cfg, day)
	second := DetectAll(state, &cfg, day)
	assert.Equal(t, first, second)
}
