package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/capacity"
	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// pass1LockImmovables reserves every fixed-flexibility task either at its
// caller-given ScheduledStart, or via the strictest possible search when it
// only has a hard deadline. Placements from this pass are never touched by
// later passes (§4.5 Pass 1).
func pass1LockImmovables(state *domain.SchedulerState, bc *buildContext) {
	for _, id := range orderedUnscheduled(state) {
		st := state.SmartTasks[id]
		if st.Flexibility != domain.FlexibilityFixed {
			continue
		}
		task := st.Task

		if task.ScheduledStart != nil && task.ScheduledEnd != nil {
			key := timeutil.DateKey(*task.ScheduledStart)
			cap := state.CapacityByDate[key]
			if cap == nil {
				state.MarkUnscheduled(id, "fixed task's date is outside the scheduling window")
				continue
			}
			start := minutesOfDay(*task.ScheduledStart)
			duration := st.EffectiveEstimateMinutes
			if err := capacity.Reserve(cap, start, duration, id, config.TransitionBreakMinutes); err != nil {
				state.MarkUnscheduled(id, "fixed task's reserved time is unavailable")
				continue
			}
			commitLockedBlock(state, st, *task.ScheduledStart, start, start+duration, "locked at caller-given time")
			continue
		}

		if task.DueDate == nil {
			state.MarkUnscheduled(id, "fixed task has neither a scheduled time nor a deadline")
			continue
		}

		deadline := *task.DueDate
		if bc.cfg.EndDate.Before(deadline) {
			deadline = bc.cfg.EndDate
		}
		day, ok := capacity.FindBestDayForTask(bc.dates, state.CapacityByDate, st.EffectiveEstimateMinutes, task.DueDate, &deadline, false, 0, bc.probeCache)
		if !ok {
			state.MarkUnscheduled(id, "no capacity before the fixed task's deadline")
			continue
		}
		cap := state.CapacityByDate[timeutil.DateKey(day)]
		slot, ok := bc.probeCache.FindBestSlot(cap, st.EffectiveEstimateMinutes, st.RequiresHighFocus, false)
		if !ok {
			state.MarkUnscheduled(id, "no capacity before the fixed task's deadline")
			continue
		}
		if err := capacity.Reserve(cap, slot.StartMinute, st.EffectiveEstimateMinutes, id, config.TransitionBreakMinutes); err != nil {
			state.MarkUnscheduled(id, "no capacity before the fixed task's deadline")
			continue
		}
		commitLockedBlock(state, st, day, slot.StartMinute, slot.StartMinute+st.EffectiveEstimateMinutes, "locked against hard deadline")
	}
}

// pass2CriticalPath places every remaining task with criticality >= 60,
// ordered by (descending criticality, ascending earliestStart) (§4.5 Pass 2).
func pass2CriticalPath(state *domain.SchedulerState, bc *buildContext) {
	var candidates []*domain.SmartTask
	for _, id := range orderedUnscheduled(state) {
		st := state.SmartTasks[id]
		if st.Criticality >= 60 {
			candidates = append(candidates, st)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Criticality != b.Criticality {
			return a.Criticality > b.Criticality
		}
		return a.EarliestStart.Before(b.EarliestStart)
	})

	for _, st := range candidates {
		deadline := bc.cfg.EndDate
		if st.LatestEnd != nil && st.LatestEnd.Before(deadline) {
			deadline = *st.LatestEnd
		}
		if !placeTask(state, bc, st, deadline) {
			state.MarkUnscheduled(st.ID(), "no slot found on the critical path")
		}
	}
}

// pass3Fill places every still-unscheduled task, ordered by (priority,
// due-date-nulls-last ascending, ascending duration), retrying with a
// relaxed deadline (the window's end date) on first failure (§4.5 Pass 3).
func pass3Fill(state *domain.SchedulerState, bc *buildContext) {
	var candidates []*domain.SmartTask
	for _, id := range orderedUnscheduled(state) {
		candidates = append(candidates, state.SmartTasks[id])
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if pa, pb := priorityRank(a.Task.Priority), priorityRank(b.Task.Priority); pa != pb {
			return pa < pb
		}
		aDue, bDue := a.Task.DueDate, b.Task.DueDate
		if (aDue == nil) != (bDue == nil) {
			return aDue != nil
		}
		if aDue != nil && bDue != nil && !aDue.Equal(*bDue) {
			return aDue.Before(*bDue)
		}
		// Not part of the spec's named sort keys, but breaks ties in a way
		// that keeps a predecessor processed (and so reserved) before its
		// dependent whenever both land in this pass with equal priority,
		// due date, and duration.
		if a.DependencyDepth != b.DependencyDepth {
			return a.DependencyDepth < b.DependencyDepth
		}
		return a.EffectiveEstimateMinutes < b.EffectiveEstimateMinutes
	})

	for _, st := range candidates {
		deadline := bc.cfg.EndDate
		if st.LatestEnd != nil && st.LatestEnd.Before(deadline) {
			deadline = *st.LatestEnd
		}
		if placeTask(state, bc, st, deadline) {
			continue
		}
		if deadline.Before(bc.cfg.EndDate) && placeTask(state, bc, st, bc.cfg.EndDate) {
			continue
		}
		state.MarkUnscheduled(st.ID(), "no capacity found in the scheduling window")
	}
}

// pass4Optimize is best-effort and never violates an invariant already
// established by Passes 1-3 (§4.5 Pass 4). Relocation across projects is
// only attempted when it's capacity- and order-preserving; otherwise the
// pass records a recommendation instead of moving anything. High-focus
// blocks placed outside peak hours are surfaced later, during
// finalization, by conflict.DetectWarnings rather than duplicated here.
func pass4Optimize(state *domain.SchedulerState, bc *buildContext) {
	if !bc.cfg.BatchSimilarTasks {
		return
	}
	byDateProject := make(map[string]map[string][]int) // date -> projectID -> block indices
	for i := range state.Blocks {
		b := &state.Blocks[i]
		st := state.SmartTasks[b.TaskID]
		if st == nil || st.Task.ProjectID == nil {
			continue
		}
		date := timeutil.DateKey(b.Date)
		if byDateProject[date] == nil {
			byDateProject[date] = make(map[string][]int)
		}
		byDateProject[date][*st.Task.ProjectID] = append(byDateProject[date][*st.Task.ProjectID], i)
	}

	for _, date := range sortedStringKeys(byDateProject) {
		for _, projectID := range sortedStringKeysOf(byDateProject[date]) {
			idxs := byDateProject[date][projectID]
			if len(idxs) < 2 {
				continue
			}
			if !isContiguousByStart(state.Blocks, idxs) {
				state.Recommendations = append(state.Recommendations, fmt.Sprintf(
					"project %s has non-adjacent blocks on %s that could be batched", projectID, date))
			}
		}
	}
}

// isContiguousByStart reports whether the blocks at idxs, sorted by start
// time, have no other project's block interleaved between them.
func isContiguousByStart(blocks []domain.ScheduledBlock, idxs []int) bool {
	sort.Ints(idxs)
	for i := 1; i < len(idxs); i++ {
		if idxs[i] != idxs[i-1]+1 {
			return false
		}
	}
	return true
}

func priorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityUrgent:
		return 0
	case domain.PriorityHigh:
		return 1
	case domain.PriorityMedium:
		return 2
	default:
		return 3
	}
}

// orderedUnscheduled returns unscheduled task IDs in sorted order, so every
// pass iterates deterministically regardless of map order.
func orderedUnscheduled(state *domain.SchedulerState) []string {
	ids := make([]string, 0, len(state.Unscheduled))
	for id := range state.Unscheduled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func commitLockedBlock(state *domain.SchedulerState, st *domain.SmartTask, date time.Time, startMinute, endMinute int, reasoning string) {
	commitBlock(state, st, date, startMinute, endMinute, reasoning, nil)
	for i := range state.Blocks {
		if state.Blocks[i].TaskID == st.ID() && state.Blocks[i].StartMinute == startMinute {
			state.Blocks[i].IsLocked = true
		}
	}
}

func sortedStringKeys(m map[string]map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStringKeysOf(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
