// Package scheduler implements C5 (the multi-pass packer), C6 (emergency
// insertion with ripple rescheduling), and C7 (single-block rescheduling).
// It is the only package that mutates a SchedulerState once built.
package scheduler

import (
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/analyzer"
	"github.com/mrivera/daypack/internal/capacity"
	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// newBuildContext wraps buildContext construction so every call site gets
// a fresh probeCache rather than forgetting to set one up.
func newBuildContext(cfg *config.SchedulerConfig, graphs map[string]*analyzer.DependencyGraph, dates []time.Time) *buildContext {
	return &buildContext{cfg: cfg, graphs: graphs, dates: dates, probeCache: capacity.NewProbeCache()}
}

// ErrInvalidRange is returned when the config's date range is ill-formed —
// the only fatal error condition the packer has (§4.5).
type ErrInvalidRange struct {
	StartDate, EndDate time.Time
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		timeutil.DateKey(e.StartDate), timeutil.DateKey(e.EndDate))
}

// buildContext holds everything the passes need beyond the SchedulerState
// itself: the working config, the project-scoped dependency graphs, and
// the ordered list of working dates in range.
type buildContext struct {
	cfg    *config.SchedulerConfig
	graphs map[string]*analyzer.DependencyGraph // projectID ("" for none) -> graph
	dates  []time.Time                          // working days only, ascending

	// probeCache memoizes capacity.FindBestSlot probes across passes; a
	// commit to a day's TimeSlots naturally invalidates its cached probes
	// since the cache key is a structural hash of the tiling itself.
	probeCache *capacity.ProbeCache
}

func projectKey(t *domain.Task) string {
	if t.ProjectID == nil {
		return ""
	}
	return *t.ProjectID
}

// buildGraphs constructs one DependencyGraph per project (plus one for
// tasks with no project), since BuildDependencyGraph's implicit
// milestone-order edges are only meaningful within a single project.
func buildGraphs(tasks []*domain.Task, milestones []*domain.Milestone) map[string]*analyzer.DependencyGraph {
	tasksByProject := make(map[string][]*domain.Task)
	for _, t := range tasks {
		key := projectKey(t)
		tasksByProject[key] = append(tasksByProject[key], t)
	}
	milestonesByProject := make(map[string][]*domain.Milestone)
	for _, m := range milestones {
		milestonesByProject[m.ProjectID] = append(milestonesByProject[m.ProjectID], m)
	}
	for key := range milestonesByProject {
		ms := milestonesByProject[key]
		for i := 1; i < len(ms); i++ {
			for j := i; j > 0 && ms[j-1].Order > ms[j].Order; j-- {
				ms[j-1], ms[j] = ms[j], ms[j-1]
			}
		}
	}

	graphs := make(map[string]*analyzer.DependencyGraph, len(tasksByProject))
	for key, projectTasks := range tasksByProject {
		graphs[key] = analyzer.BuildDependencyGraph(projectTasks, milestonesByProject[key])
	}
	return graphs
}

// predecessorCompletionTimes maps every already-settled task (completed, or
// already scheduled outside this run) to the time it's considered done,
// for C2's earliest-start calculation.
func predecessorCompletionTimes(all []*domain.Task) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, t := range all {
		switch {
		case t.Status == domain.TaskCompleted:
			out[t.ID] = t.UpdatedAt
		case t.ScheduledStart != nil && t.ScheduledEnd != nil:
			out[t.ID] = *t.ScheduledEnd
		}
	}
	return out
}

// minutesOfDay returns t's minutes since midnight in its own location.
func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// buildCapacityMap constructs a DayCapacity for every working day in
// [cfg.StartDate, cfg.EndDate], feeding it habits and the blocks
// contributed by tasks that are already scheduled outside this run.
func buildCapacityMap(cfg *config.SchedulerConfig, habits []*domain.Habit, alreadyScheduled []*domain.Task) (map[string]*domain.DayCapacity, []time.Time, error) {
	externalByDate := make(map[string][]capacity.ExternalBlock)
	for _, t := range alreadyScheduled {
		if t.ScheduledStart == nil || t.ScheduledEnd == nil {
			continue
		}
		key := timeutil.DateKey(*t.ScheduledStart)
		externalByDate[key] = append(externalByDate[key], capacity.ExternalBlock{
			StartMinute: minutesOfDay(*t.ScheduledStart),
			EndMinute:   minutesOfDay(*t.ScheduledEnd),
			Source:      domain.SourceTask,
			TaskID:      t.ID,
		})
	}

	capacityMap := make(map[string]*domain.DayCapacity)
	var dates []time.Time
	for _, d := range timeutil.EnumerateDates(cfg.StartDate, cfg.EndDate) {
		if !timeutil.IsWorkingDay(d, cfg.WorkingDays) {
			continue
		}
		key := timeutil.DateKey(d)
		dayCap, err := capacity.BuildDayCapacity(d, cfg, habits, externalByDate[key])
		if err != nil {
			return nil, nil, err
		}
		capacityMap[key] = dayCap
		dates = append(dates, d)
	}
	return capacityMap, dates, nil
}

// partitionTasks splits the input into tasks already placed outside this
// run (skipped, but still contribute capacity blocks) and tasks to be
// scheduled.
func partitionTasks(tasks []*domain.Task) (alreadyScheduled, toSchedule []*domain.Task) {
	for _, t := range tasks {
		if !t.IsSchedulable() {
			continue
		}
		if t.ScheduledStart != nil && t.ScheduledEnd != nil {
			alreadyScheduled = append(alreadyScheduled, t)
			continue
		}
		toSchedule = append(toSchedule, t)
	}
	return alreadyScheduled, toSchedule
}

// analyzeAll runs C2 over every to-be-scheduled task and seeds the
// SchedulerState's SmartTasks/Unscheduled sets.
func analyzeAll(state *domain.SchedulerState, toSchedule []*domain.Task, projectsByID map[string]*domain.Project, milestonesByID map[string]*domain.Milestone, graphs map[string]*analyzer.DependencyGraph, workingDays map[int]bool, today time.Time, predCompletion map[string]time.Time) {
	for _, t := range toSchedule {
		var project *domain.Project
		if t.ProjectID != nil {
			project = projectsByID[*t.ProjectID]
		}
		var milestone *domain.Milestone
		if t.MilestoneID != nil {
			milestone = milestonesByID[*t.MilestoneID]
		}
		graph := graphs[projectKey(t)]

		st := analyzer.AnalyzeTask(analyzer.Input{
			Task:                       t,
			Project:                    project,
			Milestone:                  milestone,
			Graph:                      graph,
			WorkingDays:                workingDays,
			Today:                      today,
			PredecessorCompletionTimes: predCompletion,
		})
		state.SmartTasks[t.ID] = st
		state.Unscheduled[t.ID] = true
	}
}
