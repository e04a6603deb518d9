package capacity

import (
	"github.com/mrivera/daypack/internal/domain"
)

// Reserve claims [startMinute, startMinute+duration) out of an available
// slot in cap's tiling, splitting that slot into a (possibly empty) leading
// gap, the new blocked interval, and a trailing gap shortened by
// breakMinutes — the fixed transition buffer between consecutive sessions.
// Both ScheduledMinutes and AvailableMinutes move by duration+appliedBreak
// so TotalMinutes stays in balance (§3 invariant 3).
func Reserve(cap *domain.DayCapacity, startMinute, duration int, taskID string, breakMinutes int) error {
	endMinute := startMinute + duration
	idx := -1
	for i, s := range cap.TimeSlots {
		if s.Available && s.StartMinute <= startMinute && s.EndMinute >= endMinute {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &ErrNoFit{DurationMinutes: duration}
	}

	slot := cap.TimeSlots[idx]

	breakEnd := endMinute + breakMinutes
	var appliedBreak int
	var replacement []domain.TimeSlot

	if startMinute > slot.StartMinute {
		replacement = append(replacement, domain.TimeSlot{
			StartMinute: slot.StartMinute, EndMinute: startMinute,
			Available: true, IsPeakEnergy: slot.IsPeakEnergy, IsLowEnergy: slot.IsLowEnergy,
		})
	}
	replacement = append(replacement, domain.TimeSlot{
		StartMinute: startMinute, EndMinute: endMinute,
		Source: domain.SourceTask, TaskID: taskID,
		IsPeakEnergy: slot.IsPeakEnergy, IsLowEnergy: slot.IsLowEnergy,
	})
	if breakEnd < slot.EndMinute {
		appliedBreak = breakMinutes
		replacement = append(replacement, domain.TimeSlot{
			StartMinute: breakEnd, EndMinute: slot.EndMinute,
			Available: true, IsPeakEnergy: slot.IsPeakEnergy, IsLowEnergy: slot.IsLowEnergy,
		})
	} else {
		appliedBreak = slot.EndMinute - endMinute
	}

	cap.TimeSlots = append(cap.TimeSlots[:idx], append(replacement, cap.TimeSlots[idx+1:]...)...)

	consumed := duration + appliedBreak
	cap.ScheduledMinutes += consumed
	cap.AvailableMinutes -= consumed

	cap.ScheduledTasks = append(cap.ScheduledTasks, domain.ScheduledBlock{
		TaskID:      taskID,
		Date:        cap.Date,
		StartMinute: startMinute,
		EndMinute:   endMinute,
	})
	return nil
}

// Release frees a block previously placed by Reserve back to available,
// merging it with any adjacent available neighbors. Used by the emergency
// inserter (C6) to lift a movable block out of its old slot before
// reserving it again at its rippled position. The break-minute bookkeeping
// Reserve folds into ScheduledMinutes/AvailableMinutes is not separated back
// out here — the caller immediately re-Reserves the freed duration
// elsewhere, so the net accounting stays balanced across the release+
// re-reserve pair rather than needing to be exactly invertible on its own.
func Release(cap *domain.DayCapacity, startMinute, endMinute int, taskID string) error {
	idx := -1
	for i, s := range cap.TimeSlots {
		if !s.Available && s.Source == domain.SourceTask && s.TaskID == taskID &&
			s.StartMinute == startMinute && s.EndMinute == endMinute {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &ErrNoFit{DurationMinutes: endMinute - startMinute}
	}

	freedStart, freedEnd := startMinute, endMinute
	slots := cap.TimeSlots
	removeFrom, removeTo := idx, idx+1

	if idx > 0 && slots[idx-1].Available {
		freedStart = slots[idx-1].StartMinute
		removeFrom = idx - 1
	}
	if idx < len(slots)-1 && slots[idx+1].Available {
		freedEnd = slots[idx+1].EndMinute
		removeTo = idx + 2
	}

	merged := domain.TimeSlot{StartMinute: freedStart, EndMinute: freedEnd, Available: true}
	cap.TimeSlots = append(append(append([]domain.TimeSlot{}, slots[:removeFrom]...), merged), slots[removeTo:]...)

	consumed := endMinute - startMinute
	cap.ScheduledMinutes -= consumed
	cap.AvailableMinutes += consumed

	var kept []domain.ScheduledBlock
	for _, b := range cap.ScheduledTasks {
		if b.TaskID == taskID && b.StartMinute == startMinute && b.EndMinute == endMinute {
			continue
		}
		kept = append(kept, b)
	}
	cap.ScheduledTasks = kept
	return nil
}

// ReserveOvertime appends a block past the working window, used when the
// packer's overtime pass allows exceeding TotalMinutes for a day. The block
// starts immediately after the latest committed point (the working window's
// end, or a previously appended overtime block, whichever is later) and is
// rejected once it would push OvertimeMinutes past maxOvertimeMinutes.
func ReserveOvertime(cap *domain.DayCapacity, duration int, taskID string, maxOvertimeMinutes int) (int, error) {
	cursor := cap.WorkEndMinute
	for _, b := range cap.ScheduledTasks {
		if b.EndMinute > cursor {
			cursor = b.EndMinute
		}
	}

	tentative := cap.ScheduledMinutes + duration
	if tentative-cap.TotalMinutes > maxOvertimeMinutes {
		return 0, &ErrNoFit{DurationMinutes: duration}
	}

	cap.ScheduledMinutes = tentative
	cap.ScheduledTasks = append(cap.ScheduledTasks, domain.ScheduledBlock{
		TaskID:      taskID,
		Date:        cap.Date,
		StartMinute: cursor,
		EndMinute:   cursor + duration,
	})
	return cursor, nil
}
