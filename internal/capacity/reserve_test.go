package capacity

import (
	"testing"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainCapacity() *domain.DayCapacity {
	cap, _ := BuildDayCapacity(mon(), baseConfig(), nil, nil)
	return cap
}

func TestReserve_SplitsSlotAndAppliesBreak(t *testing.T) {
	cap := plainCapacity()
	totalBefore := cap.TotalMinutes

	err := Reserve(cap, 540, 60, "task-1", 5) // 09:00-10:00
	require.NoError(t, err)

	require.Len(t, cap.ScheduledTasks, 1)
	assert.Equal(t, 540, cap.ScheduledTasks[0].StartMinute)
	assert.Equal(t, 600, cap.ScheduledTasks[0].EndMinute)

	assert.Equal(t, totalBefore, cap.ScheduledMinutes+cap.AvailableMinutes)

	var blockedSlot, availAfter domain.TimeSlot
	for _, s := range cap.TimeSlots {
		if s.StartMinute == 540 && !s.Available {
			blockedSlot = s
		}
		if s.StartMinute == 605 {
			availAfter = s
		}
	}
	assert.Equal(t, 600, blockedSlot.EndMinute)
	assert.Equal(t, domain.SourceTask, blockedSlot.Source)
	assert.Equal(t, "task-1", blockedSlot.TaskID)
	assert.True(t, availAfter.Available) // the 5-minute break is absorbed, gap starts at 10:05
}

func TestReserve_NoFitWhenTooLarge(t *testing.T) {
	cap := plainCapacity()
	err := Reserve(cap, 540, 10*60, "task-1", 5) // way longer than any single slot
	require.Error(t, err)
	var noFit *ErrNoFit
	assert.ErrorAs(t, err, &noFit)
}

func TestReserve_BreakClippedAtSlotEnd(t *testing.T) {
	cap := plainCapacity()
	// first available slot is 09:00(540)-12:00(720); reserve right up to its edge
	err := Reserve(cap, 540, 180, "task-1", 5)
	require.NoError(t, err)

	totalBefore := cap.TotalMinutes
	assert.Equal(t, totalBefore, cap.ScheduledMinutes+cap.AvailableMinutes)

	for _, s := range cap.TimeSlots {
		assert.False(t, s.StartMinute == 720 && s.Available && s.StartMinute < 725)
	}
}

func TestReserveOvertime_AppendsPastWorkEnd(t *testing.T) {
	cap := plainCapacity()
	// fill both working slots so the day is exactly at capacity first
	require.NoError(t, Reserve(cap, 540, 180, "a", 0))
	require.NoError(t, Reserve(cap, 780, 240, "b", 0))
	start, err := ReserveOvertime(cap, 30, "task-ot", 120)
	require.NoError(t, err)
	assert.Equal(t, cap.WorkEndMinute, start)
	assert.True(t, cap.IsOverloaded())
	assert.Equal(t, 30, cap.OvertimeMinutes())
}

func TestReserveOvertime_RejectsBeyondCap(t *testing.T) {
	cap := plainCapacity()
	require.NoError(t, Reserve(cap, 540, 180, "a", 0))
	require.NoError(t, Reserve(cap, 780, 240, "b", 0))
	_, err := ReserveOvertime(cap, 200, "task-big", 60)
	require.Error(t, err)
}
