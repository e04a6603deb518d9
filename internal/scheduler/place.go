package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mrivera/daypack/internal/capacity"
	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// placeTask is the slot-finder shared by Passes 2 and 3 (§4.5): it walks
// working days from the task's earliest start up to deadline, tries a
// single-slot placement, and falls back to a split across sessions when
// the task can be split and no single slot fits anywhere in range.
func placeTask(state *domain.SchedulerState, bc *buildContext, st *domain.SmartTask, deadline time.Time) bool {
	duration := st.EffectiveEstimateMinutes
	start := st.EarliestStart
	if bc.cfg.StartDate.After(start) {
		start = bc.cfg.StartDate
	}

	candidateDates := datesInRange(bc.dates, start, deadline)

	for _, d := range candidateDates {
		key := timeutil.DateKey(d)
		cap := state.CapacityByDate[key]
		if cap == nil {
			continue
		}
		if cap.AvailableMinutes < duration && !st.CanBeSplit {
			continue
		}
		slot, ok := bc.probeCache.FindBestSlot(cap, duration, st.RequiresHighFocus, false)
		if !ok {
			continue
		}
		if err := capacity.Reserve(cap, slot.StartMinute, duration, st.ID(), config.TransitionBreakMinutes); err != nil {
			continue
		}
		commitBlock(state, st, d, slot.StartMinute, slot.StartMinute+duration, "placed by slot-finder", nil)
		return true
	}

	if st.CanBeSplit {
		return placeSplit(state, bc, st, candidateDates, duration)
	}
	return false
}

// datesInRange filters the working-day list to [start, deadline], using
// date-only comparisons.
func datesInRange(dates []time.Time, start, deadline time.Time) []time.Time {
	start = timeutil.StartOfDay(start)
	deadline = timeutil.StartOfDay(deadline)
	var out []time.Time
	for _, d := range dates {
		if d.Before(start) || d.After(deadline) {
			continue
		}
		out = append(out, d)
	}
	return out
}

type splitItem struct {
	date   time.Time
	start  int
	length int
}

// placeSplit tries to cover duration with a sequence of sessions each
// between MinSplitMinutes and the task's MaximumSessionMinutes, greedily
// consuming the largest available slot per day first. It commits nothing
// unless the whole duration can be covered (§4.5 step 5).
func placeSplit(state *domain.SchedulerState, bc *buildContext, st *domain.SmartTask, dates []time.Time, duration int) bool {
	remaining := duration
	var plan []splitItem

	for _, d := range dates {
		if remaining <= 0 {
			break
		}
		key := timeutil.DateKey(d)
		cap := state.CapacityByDate[key]
		if cap == nil {
			continue
		}
		for _, s := range availableSlotsLargestFirst(cap) {
			if remaining <= 0 {
				break
			}
			length := s.DurationMinutes()
			if length > st.MaximumSessionMinutes {
				length = st.MaximumSessionMinutes
			}
			if length > remaining {
				length = remaining
			}
			if length < st.MinimumSessionMinutes {
				continue
			}
			plan = append(plan, splitItem{date: d, start: s.StartMinute, length: length})
			remaining -= length
		}
	}

	if remaining > 0 {
		return false
	}

	total := len(plan)
	for i, item := range plan {
		key := timeutil.DateKey(item.date)
		cap := state.CapacityByDate[key]
		if err := capacity.Reserve(cap, item.start, item.length, st.ID(), config.TransitionBreakMinutes); err != nil {
			// Capacity shifted between planning and commit — abort everything
			// already committed for this task rather than leave a partial split.
			rollbackSplit(state, st.ID(), plan[:i])
			return false
		}
		session := &domain.SessionInfo{SessionNumber: i + 1, TotalSessions: total}
		commitBlock(state, st, item.date, item.start, item.start+item.length, "split across sessions", session)
	}
	return true
}

// rollbackSplit undoes blocks already committed for a task when a later
// session in the same split plan fails to reserve; this should only
// happen if the capacity model was mutated concurrently, which the
// single-threaded packer never does, but the guard keeps placeSplit
// honestly all-or-nothing.
func rollbackSplit(state *domain.SchedulerState, taskID string, committed []splitItem) {
	if len(committed) == 0 {
		return
	}
	for _, item := range committed {
		_ = capacity.Release(state.CapacityByDate[timeutil.DateKey(item.date)], item.start, item.start+item.length, taskID)
	}
	var kept []domain.ScheduledBlock
	for _, b := range state.Blocks {
		if b.TaskID == taskID {
			continue
		}
		kept = append(kept, b)
	}
	state.Blocks = kept
	state.MarkUnscheduled(taskID, "split placement could not be committed")
}

func availableSlotsLargestFirst(cap *domain.DayCapacity) []domain.TimeSlot {
	var out []domain.TimeSlot
	for _, s := range cap.TimeSlots {
		if s.Available && s.DurationMinutes() >= config.MinSplitMinutes {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationMinutes() > out[j].DurationMinutes() })
	return out
}

// commitBlock appends a new ScheduledBlock for st and marks it scheduled.
func commitBlock(state *domain.SchedulerState, st *domain.SmartTask, date time.Time, startMinute, endMinute int, reasoning string, session *domain.SessionInfo) {
	state.Blocks = append(state.Blocks, domain.ScheduledBlock{
		ID:          uuid.NewString(),
		TaskID:      st.ID(),
		Date:        timeutil.StartOfDay(date),
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Reasoning:   reasoning,
		SessionInfo: session,
	})
	state.MarkScheduled(st.ID())
}
