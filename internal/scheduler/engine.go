package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/conflict"
	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/observability"
	"github.com/mrivera/daypack/internal/timeutil"
)

// Schedule is the packer's entry point (§4.5 scheduleAll): it analyzes,
// packs across four passes, and finalizes into a SchedulingResult. The
// only fatal error is an ill-formed date range; every placement shortfall
// is reported as an unscheduled task or Conflict instead.
func Schedule(tasks []*domain.Task, milestones []*domain.Milestone, projects []*domain.Project, habits []*domain.Habit, cfg *config.SchedulerConfig, observers ...observability.Observer) (*domain.SchedulingResult, error) {
	_, result, err := ScheduleWithState(tasks, milestones, projects, habits, cfg, observers...)
	return result, err
}

// ScheduleWithState runs the same pipeline as Schedule but also returns the
// settled SchedulerState, for callers (the insert and reschedule
// subcommands) that need to run C6/C7 against the state a run just
// produced instead of only reading its summarized result. observers, when
// given, receives one PhaseEvent per pass plus finalization's conflict
// detection.
func ScheduleWithState(tasks []*domain.Task, milestones []*domain.Milestone, projects []*domain.Project, habits []*domain.Habit, cfg *config.SchedulerConfig, observers ...observability.Observer) (*domain.SchedulerState, *domain.SchedulingResult, error) {
	obs := observability.OrNoop(observers)
	ctx := context.Background()

	if cfg.EndDate.Before(cfg.StartDate) {
		return nil, nil, &ErrInvalidRange{StartDate: cfg.StartDate, EndDate: cfg.EndDate}
	}

	alreadyScheduled, toSchedule := partitionTasks(tasks)

	capacityMap, dates, err := buildCapacityMap(cfg, habits, alreadyScheduled)
	if err != nil {
		return nil, nil, err
	}

	projectsByID := make(map[string]*domain.Project, len(projects))
	for _, p := range projects {
		projectsByID[p.ID] = p
	}
	milestonesByID := make(map[string]*domain.Milestone, len(milestones))
	for _, m := range milestones {
		milestonesByID[m.ID] = m
	}
	graphs := buildGraphs(tasks, milestones)

	state := domain.NewSchedulerState()
	state.CapacityByDate = capacityMap

	// "Now" for analysis purposes is the window's start date rather than
	// the wall clock: deadline/overdue checks and earliestStart floors are
	// all relative to when the scheduling run is asked to begin, which
	// keeps scheduleAll deterministic on identical inputs regardless of
	// when it's actually invoked (§8's determinism property).
	now := cfg.StartDate
	analyzeAll(state, toSchedule, projectsByID, milestonesByID, graphs, cfg.WorkingDays, now, predecessorCompletionTimes(tasks))

	bc := newBuildContext(cfg, graphs, dates)

	observePhase(ctx, obs, "pass1-lock-immovables", func() { pass1LockImmovables(state, bc) })
	observePhase(ctx, obs, "pass2-critical-path", func() { pass2CriticalPath(state, bc) })
	observePhase(ctx, obs, "pass3-fill", func() { pass3Fill(state, bc) })
	observePhase(ctx, obs, "pass4-optimize", func() { pass4Optimize(state, bc) })

	return state, finalize(ctx, state, cfg, now, obs), nil
}

// observePhase runs fn and reports its duration and outcome to obs under
// name, mirroring the teacher's defer-based ObserveUseCase wrapping but as a
// free function since the engine's phases aren't service methods.
func observePhase(ctx context.Context, obs observability.Observer, name string, fn func()) {
	startedAt := time.Now().UTC()
	fn()
	obs.ObservePhase(ctx, observability.PhaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
	})
}

// finalize runs C4 over the settled state, builds per-day previews, and
// assembles the capacity summary (§4.5 Finalization).
func finalize(ctx context.Context, state *domain.SchedulerState, cfg *config.SchedulerConfig, now time.Time, obs observability.Observer) *domain.SchedulingResult {
	startedAt := time.Now().UTC()
	conflicts := conflict.DetectAll(state, cfg, now)
	warnings := conflict.DetectWarnings(state, now)
	obs.ObservePhase(ctx, observability.PhaseEvent{
		Name:      "conflict-detection",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields:    map[string]any{"conflict_count": len(conflicts), "warning_count": len(warnings)},
	})
	state.Conflicts = conflicts
	state.Warnings = warnings

	previews := buildPreviews(state)
	summary := buildCapacitySummary(state, cfg)

	unscheduledTasks := make([]string, 0, len(state.Unscheduled))
	for id := range state.Unscheduled {
		unscheduledTasks = append(unscheduledTasks, id)
	}
	sort.Strings(unscheduledTasks)

	return &domain.SchedulingResult{
		Success:            true,
		ScheduledCount:     len(state.Scheduled),
		UnscheduledCount:   len(state.Unscheduled),
		Previews:           previews,
		Conflicts:          conflicts,
		Warnings:           warnings,
		Recommendations:    state.Recommendations,
		CapacitySummary:    summary,
		UnscheduledTasks:   unscheduledTasks,
		UnscheduledReasons: state.UnscheduledReasons,
	}
}

func buildPreviews(state *domain.SchedulerState) []domain.SchedulePreview {
	byDate := make(map[string][]domain.ScheduledBlock)
	for _, b := range state.Blocks {
		key := timeutil.DateKey(b.Date)
		byDate[key] = append(byDate[key], b)
	}

	dateKeys := make([]string, 0, len(state.CapacityByDate))
	for key := range state.CapacityByDate {
		dateKeys = append(dateKeys, key)
	}
	sort.Strings(dateKeys)

	previews := make([]domain.SchedulePreview, 0, len(dateKeys))
	for _, key := range dateKeys {
		cap := state.CapacityByDate[key]
		slots := byDate[key]
		sort.Slice(slots, func(i, j int) bool { return slots[i].StartMinute < slots[j].StartMinute })

		var warnings []string
		for _, c := range state.Conflicts {
			for _, d := range c.AffectedDates {
				if d == key {
					warnings = append(warnings, c.Description)
				}
			}
		}

		previews = append(previews, domain.SchedulePreview{
			Date:    cap.Date,
			Slots:   slots,
			Summary: fmt.Sprintf("%d blocks, %.0f%% utilized", len(slots), cap.Utilization()),
			Warnings: warnings,
		})
	}
	return previews
}

func buildCapacitySummary(state *domain.SchedulerState, cfg *config.SchedulerConfig) domain.CapacitySummary {
	totalDays := len(timeutil.EnumerateDates(cfg.StartDate, cfg.EndDate))
	workingDays := len(state.CapacityByDate)

	var totalCapacityMinutes, totalDemandMinutes float64
	overloaded := 0
	for _, cap := range state.CapacityByDate {
		totalCapacityMinutes += float64(cap.TotalMinutes)
		totalDemandMinutes += float64(cap.ScheduledMinutes)
		if cap.IsOverloaded() {
			overloaded++
		}
	}

	utilization := 0.0
	if totalCapacityMinutes > 0 {
		utilization = totalDemandMinutes / totalCapacityMinutes * 100
	}

	return domain.CapacitySummary{
		TotalDays:          totalDays,
		WorkingDays:        workingDays,
		TotalCapacityHours: totalCapacityMinutes / 60,
		TotalDemandHours:   totalDemandMinutes / 60,
		Utilization:        utilization,
		OverloadedDays:     overloaded,
	}
}
