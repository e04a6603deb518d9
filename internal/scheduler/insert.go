package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mrivera/daypack/internal/analyzer"
	"github.com/mrivera/daypack/internal/capacity"
	"github.com/mrivera/daypack/internal/conflict"
	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/observability"
	"github.com/mrivera/daypack/internal/timeutil"
)

// ErrDateNotInWindow is returned when an emergency-insert or reschedule
// request names a date outside the populated capacity map.
type ErrDateNotInWindow struct {
	Date time.Time
}

func (e *ErrDateNotInWindow) Error() string {
	return fmt.Sprintf("%s is outside the scheduled capacity window", timeutil.DateKey(e.Date))
}

// rippleSeverity classifies a displacement by how many minutes it pushes a
// block later (§4.6).
func rippleSeverity(deltaMinutes int) domain.RippleSeverity {
	switch {
	case deltaMinutes <= 60:
		return domain.RippleMinor
	case deltaMinutes <= 120:
		return domain.RippleModerate
	default:
		return domain.RippleSignificant
	}
}

// resolveTarget fills in the request's target date/time with the spec's
// defaults: today if now is before 16:00, else tomorrow; the configured
// work start.
func resolveTarget(cfg *config.SchedulerConfig, req domain.EmergencyInsertRequest, now time.Time) (time.Time, int) {
	date := req.TargetDate
	if date.IsZero() {
		if now.Hour() < 16 {
			date = timeutil.StartOfDay(now)
		} else {
			date = timeutil.StartOfDay(now.AddDate(0, 0, 1))
		}
	} else {
		date = timeutil.StartOfDay(date)
	}

	startMinute := timeutil.MustToMinutes(cfg.WorkingHoursStart)
	if req.TargetTime != "" {
		if m, err := timeutil.ToMinutes(req.TargetTime); err == nil {
			startMinute = m
		}
	}
	return date, startMinute
}

// PreviewEmergencyInsertion dry-runs inserting req.Task at its target
// date/time, planning (but not committing) the forward cascade of movable
// same-day blocks it would displace (§4.6).
func PreviewEmergencyInsertion(state *domain.SchedulerState, cfg *config.SchedulerConfig, req domain.EmergencyInsertRequest, now time.Time) (*domain.InsertionPreview, error) {
	date, targetStart := resolveTarget(cfg, req, now)
	key := timeutil.DateKey(date)
	cap := state.CapacityByDate[key]
	if cap == nil {
		return nil, &ErrDateNotInWindow{Date: date}
	}

	duration := req.Task.EffectiveEstimateMinutes()

	if !req.MustComplete {
		if slot, ok := capacity.FindBestSlot(cap, duration, false, false); ok {
			return &domain.InsertionPreview{
				CanInsert:           true,
				ProposedDate:        key,
				ProposedStartMinute: slot.StartMinute,
				ProposedEndMinute:   slot.StartMinute + duration,
				Summary:             fmt.Sprintf("%s fits at %s with no displacement", req.Task.Title, timeutil.ToTimeString(slot.StartMinute)),
			}, nil
		}
	}

	targetEnd := targetStart + duration
	ripples, warnings := planRipple(state, cfg, cap, key, targetStart, targetEnd)

	canInsert := req.MustComplete
	if !canInsert {
		canInsert = true
		for _, r := range ripples {
			if r.Severity == domain.RippleSignificant {
				canInsert = false
				break
			}
		}
	}

	return &domain.InsertionPreview{
		CanInsert:           canInsert,
		ProposedDate:        key,
		ProposedStartMinute: targetStart,
		ProposedEndMinute:   targetEnd,
		RippleEffects:       ripples,
		Warnings:            warnings,
		TotalItemsAffected:  len(ripples),
		Summary: fmt.Sprintf("insert %s at %s on %s, displacing %d block(s)",
			req.Task.Title, timeutil.ToTimeString(targetStart), key, len(ripples)),
	}, nil
}

// planRipple walks the day's movable, non-locked blocks in start order and
// cascades each one that would now overlap forward, clamped past a lunch
// break when the new placement would cross it.
func planRipple(state *domain.SchedulerState, cfg *config.SchedulerConfig, cap *domain.DayCapacity, dateKey string, targetStart, targetEnd int) ([]domain.RippleEffect, []string) {
	var movable []domain.ScheduledBlock
	for _, b := range state.Blocks {
		if timeutil.DateKey(b.Date) != dateKey || b.IsLocked {
			continue
		}
		movable = append(movable, b)
	}
	sort.Slice(movable, func(i, j int) bool { return movable[i].StartMinute < movable[j].StartMinute })

	var lunchStart, lunchEnd int
	hasLunch := cfg.LunchBreakStart != nil && cfg.LunchBreakEnd != nil
	if hasLunch {
		lunchStart = timeutil.MustToMinutes(*cfg.LunchBreakStart)
		lunchEnd = timeutil.MustToMinutes(*cfg.LunchBreakEnd)
	}

	var ripples []domain.RippleEffect
	var warnings []string
	cursor := targetEnd + config.TransitionBreakMinutes

	for _, b := range movable {
		needsShift := b.StartMinute < cursor && b.EndMinute > targetStart
		if !needsShift {
			continue
		}
		duration := b.DurationMinutes()
		newStart := cursor
		newEnd := newStart + duration
		if hasLunch && newStart >= lunchStart && newStart < lunchEnd {
			newStart = lunchEnd
			newEnd = newStart + duration
		}

		delta := newStart - b.StartMinute
		ripple := domain.RippleEffect{
			BlockID:         b.ID,
			TaskID:          b.TaskID,
			OldStartMinute:  b.StartMinute,
			OldEndMinute:    b.EndMinute,
			NewStartMinute:  newStart,
			NewEndMinute:    newEnd,
			Severity:        rippleSeverity(delta),
			ImpactDescription: fmt.Sprintf("shifts %d minutes later, to %s", delta, timeutil.ToTimeString(newStart)),
		}
		ripples = append(ripples, ripple)

		if newEnd > cap.WorkEndMinute {
			warnings = append(warnings, fmt.Sprintf("%s would move past the end of the working day", b.TaskID))
		}
		if st := state.SmartTasks[b.TaskID]; st != nil && st.Task.DueDate != nil {
			newEndTime := cap.Date.Add(time.Duration(newEnd) * time.Minute)
			if newEndTime.After(*st.Task.DueDate) {
				warnings = append(warnings, fmt.Sprintf("%s would finish after its due date", b.TaskID))
			}
		}

		cursor = newEnd + config.TransitionBreakMinutes
	}
	return ripples, warnings
}

// ExecuteEmergencyInsertion commits a preview's plan: every ripple applies,
// or none does (§4.6). The new block is appended locked, and C4 is re-run
// over the resulting state. observers, when given, receives one PhaseEvent
// for the insertion attempt.
func ExecuteEmergencyInsertion(state *domain.SchedulerState, cfg *config.SchedulerConfig, req domain.EmergencyInsertRequest, now time.Time, observers ...observability.Observer) (result *domain.InsertionResult, err error) {
	obs := observability.OrNoop(observers)
	ctx := context.Background()
	startedAt := time.Now().UTC()
	defer func() {
		success := err == nil && result != nil && result.Success
		fields := map[string]any{"task_id": req.Task.ID}
		if result != nil {
			fields["ripple_count"] = len(result.RippleEffects)
		}
		obs.ObservePhase(ctx, observability.PhaseEvent{
			Name:      "emergency-insert",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   success,
			Err:       err,
			Fields:    fields,
		})
	}()

	preview, err := PreviewEmergencyInsertion(state, cfg, req, now)
	if err != nil {
		return nil, err
	}
	if !preview.CanInsert {
		return &domain.InsertionResult{Success: false, Warnings: preview.Warnings}, nil
	}

	cap := state.CapacityByDate[preview.ProposedDate]

	if violatesDependencyOrder(state, preview) {
		return &domain.InsertionResult{
			Success:  false,
			Warnings: append(preview.Warnings, "commit aborted: a ripple would invert a dependency ordering"),
		}, nil
	}

	released := 0
	for _, r := range preview.RippleEffects {
		if err := capacity.Release(cap, r.OldStartMinute, r.OldEndMinute, r.TaskID); err != nil {
			rollbackRipple(state, cap, preview.RippleEffects[:released])
			return &domain.InsertionResult{Success: false, Warnings: append(preview.Warnings, "commit aborted: capacity shifted since preview")}, nil
		}
		released++
	}

	if err := capacity.Reserve(cap, preview.ProposedStartMinute, preview.ProposedEndMinute-preview.ProposedStartMinute, req.Task.ID, config.TransitionBreakMinutes); err != nil {
		rollbackRipple(state, cap, preview.RippleEffects)
		return &domain.InsertionResult{Success: false, Warnings: append(preview.Warnings, "commit aborted: target slot unavailable")}, nil
	}

	for _, r := range preview.RippleEffects {
		if err := capacity.Reserve(cap, r.NewStartMinute, r.NewEndMinute-r.NewStartMinute, r.TaskID, config.TransitionBreakMinutes); err != nil {
			_ = capacity.Release(cap, preview.ProposedStartMinute, preview.ProposedEndMinute, req.Task.ID)
			rollbackRipple(state, cap, preview.RippleEffects)
			return &domain.InsertionResult{Success: false, Warnings: append(preview.Warnings, "commit aborted: cascade slot unavailable")}, nil
		}
	}
	for _, r := range preview.RippleEffects {
		for i := range state.Blocks {
			if state.Blocks[i].ID == r.BlockID {
				state.Blocks[i].StartMinute = r.NewStartMinute
				state.Blocks[i].EndMinute = r.NewEndMinute
			}
		}
	}

	newBlock := domain.ScheduledBlock{
		ID:          uuid.NewString(),
		TaskID:      req.Task.ID,
		Date:        cap.Date,
		StartMinute: preview.ProposedStartMinute,
		EndMinute:   preview.ProposedEndMinute,
		Reasoning:   "emergency insertion",
		IsLocked:    true,
	}
	state.Blocks = append(state.Blocks, newBlock)

	if state.SmartTasks[req.Task.ID] == nil {
		state.SmartTasks[req.Task.ID] = analyzer.AnalyzeTask(analyzer.Input{Task: req.Task, Today: now})
	}
	state.MarkScheduled(req.Task.ID)

	conflicts := conflict.DetectAll(state, cfg, now)
	state.Conflicts = conflicts

	return &domain.InsertionResult{
		Success:       true,
		NewBlockID:    newBlock.ID,
		RippleEffects: preview.RippleEffects,
		Conflicts:     conflicts,
		Warnings:      preview.Warnings,
	}, nil
}

// violatesDependencyOrder reports whether applying the preview's ripple plan
// would push any rippled block on or after a dependent's still-fixed start,
// or before a predecessor's still-fixed end (invariant 4).
func violatesDependencyOrder(state *domain.SchedulerState, preview *domain.InsertionPreview) bool {
	proposedDate, err := timeutil.ParseDateKey(preview.ProposedDate)
	if err != nil {
		return false
	}
	newTimes := make(map[string][2]int, len(preview.RippleEffects))
	for _, r := range preview.RippleEffects {
		newTimes[r.TaskID] = [2]int{r.NewStartMinute, r.NewEndMinute}
	}
	for taskID, times := range newTimes {
		st := state.SmartTasks[taskID]
		if st == nil {
			continue
		}
		for _, predID := range st.Task.BlockedBy {
			for _, b := range state.BlocksForTask(predID) {
				if nt, rippled := newTimes[predID]; rippled {
					if nt[1] > times[0] {
						return true
					}
					continue
				}
				if b.EndMinute > times[0] && b.Date.Equal(proposedDate) {
					return true
				}
			}
		}
		for _, depID := range st.Task.Blocking {
			for _, b := range state.BlocksForTask(depID) {
				if _, rippled := newTimes[depID]; rippled {
					continue
				}
				if b.StartMinute < times[1] && b.Date.Equal(proposedDate) {
					return true
				}
			}
		}
	}
	return false
}

// rollbackRipple is a best-effort undo for a partially-applied ripple;
// since a single-threaded commit only fails here when the preview's plan
// was stale, this mirrors placeSplit's rollback rather than being
// load-bearing in the common path.
func rollbackRipple(state *domain.SchedulerState, cap *domain.DayCapacity, applied []domain.RippleEffect) {
	for _, r := range applied {
		_ = capacity.Release(cap, r.NewStartMinute, r.NewEndMinute, r.TaskID)
		_ = capacity.Reserve(cap, r.OldStartMinute, r.OldEndMinute-r.OldStartMinute, r.TaskID, config.TransitionBreakMinutes)
	}
}

// QuickInsertToday forces the target date to today and mustComplete to
// true, leaving the target time at its default (work start) unless given.
func QuickInsertToday(state *domain.SchedulerState, cfg *config.SchedulerConfig, task *domain.Task, targetTime string, now time.Time) (*domain.InsertionResult, error) {
	req := domain.EmergencyInsertRequest{
		Task:         task,
		TargetDate:   timeutil.StartOfDay(now),
		TargetTime:   targetTime,
		MustComplete: true,
	}
	return ExecuteEmergencyInsertion(state, cfg, req, now)
}

// InsertNextAvailable never displaces: it scans working days from the
// default target date forward for the first slot that fits without
// ripple, and commits there.
func InsertNextAvailable(state *domain.SchedulerState, cfg *config.SchedulerConfig, task *domain.Task, now time.Time) (*domain.InsertionResult, error) {
	date, _ := resolveTarget(cfg, domain.EmergencyInsertRequest{}, now)
	duration := task.EffectiveEstimateMinutes()

	keys := make([]string, 0, len(state.CapacityByDate))
	for k := range state.CapacityByDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cap := state.CapacityByDate[k]
		if cap.Date.Before(timeutil.StartOfDay(date)) {
			continue
		}
		slot, ok := capacity.FindBestSlot(cap, duration, false, false)
		if !ok {
			continue
		}
		req := domain.EmergencyInsertRequest{
			Task:         task,
			TargetDate:   cap.Date,
			TargetTime:   timeutil.ToTimeString(slot.StartMinute),
			MustComplete: false,
		}
		return ExecuteEmergencyInsertion(state, cfg, req, now)
	}
	return &domain.InsertionResult{Success: false, Warnings: []string{"no available slot found in the scheduling window"}}, nil
}
