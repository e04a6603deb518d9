package scheduler

import (
	"testing"
	"time"

	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(startYMD, endYMD [3]int) config.SchedulerConfig {
	start := time.Date(startYMD[0], time.Month(startYMD[1]), startYMD[2], 0, 0, 0, 0, time.UTC)
	end := time.Date(endYMD[0], time.Month(endYMD[1]), endYMD[2], 0, 0, 0, 0, time.UTC)
	return config.NewDefaultConfig(start, end)
}

func TestSchedule_SimpleSingleDayPlacement(t *testing.T) {
	cfg := window([3]int{2025, 3, 3}, [3]int{2025, 3, 7})
	task := &domain.Task{ID: "t1", Title: "T", Priority: domain.PriorityMedium, EstimatedMinutes: 45}

	result, err := Schedule([]*domain.Task{task}, nil, nil, nil, &cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ScheduledCount)
	assert.Equal(t, 0, result.UnscheduledCount)
	assert.Empty(t, result.Conflicts)

	require.Len(t, result.Previews[0].Slots, 1)
	block := result.Previews[0].Slots[0]
	assert.Equal(t, 540, block.StartMinute) // 09:00
	assert.Equal(t, 585, block.EndMinute)   // 09:45
}

func TestSchedule_DependencyOrdering(t *testing.T) {
	cfg := window([3]int{2025, 3, 3}, [3]int{2025, 3, 7})
	a := &domain.Task{ID: "a", EstimatedMinutes: 30}
	b := &domain.Task{ID: "b", EstimatedMinutes: 30, BlockedBy: []string{"a"}}

	result, err := Schedule([]*domain.Task{b, a}, nil, nil, nil, &cfg) // deliberately out of order
	require.NoError(t, err)
	require.Equal(t, 2, result.ScheduledCount)

	var blockA, blockB *domain.ScheduledBlock
	for _, p := range result.Previews {
		for i := range p.Slots {
			switch p.Slots[i].TaskID {
			case "a":
				blockA = &p.Slots[i]
			case "b":
				blockB = &p.Slots[i]
			}
		}
	}
	require.NotNil(t, blockA)
	require.NotNil(t, blockB)
	assert.True(t, !blockA.EndTime().After(blockB.StartTime()))
}

func TestSchedule_SplitAcrossTwoDays(t *testing.T) {
	cfg := window([3]int{2025, 3, 3}, [3]int{2025, 3, 4})
	// Shrink each day's window to 120 minutes (no lunch block) so a single
	// 180-minute slot can't fit on either day alone, forcing a genuine
	// cross-day split.
	cfg.WorkingHoursStart, cfg.WorkingHoursEnd = "09:00", "11:00"
	cfg.LunchBreakStart, cfg.LunchBreakEnd = nil, nil
	task := &domain.Task{ID: "big", EstimatedMinutes: 180, Tags: map[string]bool{}}

	result, err := Schedule([]*domain.Task{task}, nil, nil, nil, &cfg)
	require.NoError(t, err)
	require.Equal(t, 1, result.ScheduledCount)

	var blocks []domain.ScheduledBlock
	for _, p := range result.Previews {
		for _, s := range p.Slots {
			if s.TaskID == "big" {
				blocks = append(blocks, s)
			}
		}
	}
	require.Len(t, blocks, 2)
	total := blocks[0].DurationMinutes() + blocks[1].DurationMinutes()
	assert.Equal(t, 180, total)
	assert.GreaterOrEqual(t, blocks[0].DurationMinutes(), 30)
	assert.GreaterOrEqual(t, blocks[1].DurationMinutes(), 30)
	require.NotNil(t, blocks[0].SessionInfo)
	assert.Equal(t, 2, blocks[0].SessionInfo.TotalSessions)
}

func TestSchedule_InvalidRangeIsFatal(t *testing.T) {
	cfg := window([3]int{2025, 3, 7}, [3]int{2025, 3, 3})
	_, err := Schedule(nil, nil, nil, nil, &cfg)
	require.Error(t, err)
}

func TestSchedule_EmptyTaskSet(t *testing.T) {
	cfg := window([3]int{2025, 3, 3}, [3]int{2025, 3, 7})
	result, err := Schedule(nil, nil, nil, nil, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ScheduledCount)
	assert.Empty(t, result.Conflicts)
	assert.NotEmpty(t, result.Previews)
}

func TestSchedule_OverloadedWindowLeavesTasksUnscheduled(t *testing.T) {
	cfg := window([3]int{2025, 3, 3}, [3]int{2025, 3, 3}) // a single Monday, 8 working hours
	var tasks []*domain.Task
	for i := 0; i < 4; i++ {
		tasks = append(tasks, &domain.Task{ID: string(rune('a' + i)), EstimatedMinutes: 180})
	}

	result, err := Schedule(tasks, nil, nil, nil, &cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.ScheduledCount, 2)
	assert.GreaterOrEqual(t, result.UnscheduledCount, 2)
}

func TestSchedule_RunningTwiceOnCommittedStateIsNoOp(t *testing.T) {
	cfg := window([3]int{2025, 3, 3}, [3]int{2025, 3, 7})
	task := &domain.Task{ID: "t1", EstimatedMinutes: 45}
	first, err := Schedule([]*domain.Task{task}, nil, nil, nil, &cfg)
	require.NoError(t, err)
	require.Len(t, first.Previews[0].Slots, 1)

	block := first.Previews[0].Slots[0]
	committed := &domain.Task{
		ID: "t1", EstimatedMinutes: 45,
		ScheduledStart: timePtr(block.StartTime()),
		ScheduledEnd:   timePtr(block.EndTime()),
	}

	second, err := Schedule([]*domain.Task{committed}, nil, nil, nil, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ScheduledCount)
	assert.Empty(t, second.Conflicts)
}

func timePtr(t time.Time) *time.Time { return &t }
