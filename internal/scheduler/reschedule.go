package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/capacity"
	"github.com/mrivera/daypack/internal/conflict"
	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/observability"
	"github.com/mrivera/daypack/internal/timeutil"
)

// PreviewReschedule runs the same validation as RescheduleBlock without
// mutating state (§4.7).
func PreviewReschedule(state *domain.SchedulerState, cfg *config.SchedulerConfig, blockID string, newDate time.Time, newStartMinute int, now time.Time, observers ...observability.Observer) *domain.RescheduleResult {
	return reschedule(state, cfg, blockID, newDate, newStartMinute, now, false, observers...)
}

// RescheduleBlock drag-moves a single block to a new date/time, validating
// capacity and dependency order before committing (§4.7). On success the
// block is swapped in place and C4 is re-run; on failure the specific
// conflict is returned and state is untouched. observers, when given,
// receives one PhaseEvent for the attempt.
func RescheduleBlock(state *domain.SchedulerState, cfg *config.SchedulerConfig, blockID string, newDate time.Time, newStartMinute int, now time.Time, observers ...observability.Observer) *domain.RescheduleResult {
	return reschedule(state, cfg, blockID, newDate, newStartMinute, now, true, observers...)
}

func reschedule(state *domain.SchedulerState, cfg *config.SchedulerConfig, blockID string, newDate time.Time, newStartMinute int, now time.Time, commit bool, observers ...observability.Observer) (result *domain.RescheduleResult) {
	if commit {
		obs := observability.OrNoop(observers)
		ctx := context.Background()
		startedAt := time.Now().UTC()
		defer func() {
			obs.ObservePhase(ctx, observability.PhaseEvent{
				Name:      "reschedule",
				StartedAt: startedAt,
				Duration:  time.Since(startedAt),
				Success:   result != nil && result.Success,
				Fields:    map[string]any{"block_id": blockID},
			})
		}()
	}
	idx := -1
	for i := range state.Blocks {
		if state.Blocks[i].ID == blockID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{notFoundConflict(blockID)}}
	}
	block := state.Blocks[idx]

	if block.IsLocked {
		return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{lockedConflict(blockID)}}
	}

	newKey := timeutil.DateKey(newDate)
	newCap := state.CapacityByDate[newKey]
	if newCap == nil {
		return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{outsideWindowConflict(blockID, newKey)}}
	}

	duration := block.DurationMinutes()
	newEndMinute := newStartMinute + duration

	oldKey := timeutil.DateKey(block.Date)
	oldCap := state.CapacityByDate[oldKey]

	// Release the old reservation first, whether or not the move stays on
	// the same day, so a same-day move correctly sees its own vacated
	// space as available capacity for the new slot check.
	if err := capacity.Release(oldCap, block.StartMinute, block.EndMinute, block.TaskID); err != nil {
		return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{capacityConflict(blockID, oldKey)}}
	}
	restoreOld := func() {
		_ = capacity.Reserve(oldCap, block.StartMinute, duration, block.TaskID, config.TransitionBreakMinutes)
	}

	if !slotContains(newCap, newStartMinute, newEndMinute) {
		restoreOld()
		return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{capacityConflict(blockID, newKey)}}
	}

	if st := state.SmartTasks[block.TaskID]; st != nil {
		if violatesDependencyOrderForMove(state, st, newDate, newStartMinute, newEndMinute) {
			restoreOld()
			return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{dependencyConflict(blockID)}}
		}
	}

	if !commit {
		restoreOld()
		return &domain.RescheduleResult{Success: true}
	}

	if err := capacity.Reserve(newCap, newStartMinute, duration, block.TaskID, config.TransitionBreakMinutes); err != nil {
		restoreOld()
		return &domain.RescheduleResult{Success: false, Conflicts: []domain.Conflict{capacityConflict(blockID, newKey)}}
	}

	state.Blocks[idx].Date = newCap.Date
	state.Blocks[idx].StartMinute = newStartMinute
	state.Blocks[idx].EndMinute = newEndMinute
	state.Blocks[idx].Reasoning = "rescheduled"

	conflicts := conflict.DetectAll(state, cfg, now)
	state.Conflicts = conflicts

	return &domain.RescheduleResult{Success: true, Conflicts: conflicts}
}

func slotContains(cap *domain.DayCapacity, start, end int) bool {
	for _, s := range cap.TimeSlots {
		if s.Available && s.StartMinute <= start && s.EndMinute >= end {
			return true
		}
	}
	return false
}

// violatesDependencyOrderForMove checks the moved block's task against
// every predecessor's and dependent's currently-placed blocks (invariant 4).
func violatesDependencyOrderForMove(state *domain.SchedulerState, st *domain.SmartTask, newDate time.Time, newStart, newEnd int) bool {
	for _, predID := range st.Task.BlockedBy {
		for _, b := range state.BlocksForTask(predID) {
			if b.Date.Equal(timeutil.StartOfDay(newDate)) && b.EndMinute > newStart {
				return true
			}
		}
	}
	for _, depID := range st.Task.Blocking {
		for _, b := range state.BlocksForTask(depID) {
			if b.Date.Equal(timeutil.StartOfDay(newDate)) && b.StartMinute < newEnd {
				return true
			}
		}
	}
	return false
}

func notFoundConflict(blockID string) domain.Conflict {
	return domain.Conflict{
		Type:           domain.ConflictNoCapacity,
		Severity:       domain.SeverityCritical,
		Description:    fmt.Sprintf("block %s does not exist", blockID),
		AutoResolvable: false,
	}
}

func lockedConflict(blockID string) domain.Conflict {
	return domain.Conflict{
		Type:           domain.ConflictDependencyViolation,
		Severity:       domain.SeverityCritical,
		Description:    fmt.Sprintf("block %s is locked and cannot be rescheduled", blockID),
		AutoResolvable: false,
	}
}

func outsideWindowConflict(blockID, dateKey string) domain.Conflict {
	return domain.Conflict{
		Type:           domain.ConflictNoCapacity,
		Severity:       domain.SeverityCritical,
		Description:    fmt.Sprintf("%s is outside the scheduling window for block %s", dateKey, blockID),
		AffectedDates:  []string{dateKey},
		AutoResolvable: false,
	}
}

func capacityConflict(blockID, dateKey string) domain.Conflict {
	return domain.Conflict{
		Type:           domain.ConflictNoCapacity,
		Severity:       domain.SeverityCritical,
		Description:    fmt.Sprintf("no room on %s for block %s", dateKey, blockID),
		AffectedDates:  []string{dateKey},
		AutoResolvable: false,
	}
}

func dependencyConflict(blockID string) domain.Conflict {
	return domain.Conflict{
		Type:           domain.ConflictDependencyViolation,
		Severity:       domain.SeverityCritical,
		Description:    fmt.Sprintf("moving block %s would invert a dependency ordering", blockID),
		AutoResolvable: false,
	}
}
