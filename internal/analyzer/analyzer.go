// Package analyzer implements C2: deriving a SmartTask from a raw Task plus
// its project/milestone/dependency context (§4.2).
package analyzer

import (
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// DefaultMaxSessionMinutes bounds a single session of a splittable task.
// Not specified numerically by the spec; chosen to keep a deep-work
// session within one sitting while still letting short tasks stay whole.
const DefaultMaxSessionMinutes = 120

// Input bundles everything AnalyzeTask needs to derive one SmartTask.
type Input struct {
	Task    *domain.Task
	Project *domain.Project
	Milestone *domain.Milestone

	// Graph is the dependency graph for the task's project (nil if the
	// task has no project, or the caller hasn't built one).
	Graph *DependencyGraph

	WorkingDays map[int]bool
	Today       time.Time

	// PredecessorCompletionTimes maps an already-scheduled predecessor's
	// task ID to the time it completes (its block's end time, or actual
	// completion if already done).
	PredecessorCompletionTimes map[string]time.Time
}

// AnalyzeTask derives a SmartTask from a Task plus its context (§4.2).
func AnalyzeTask(in Input) *domain.SmartTask {
	t := in.Task

	milestoneOrder := 0
	if in.Milestone != nil {
		milestoneOrder = in.Milestone.Order
	}

	blocksCount := 0
	depth := 0
	if in.Graph != nil {
		blocksCount = len(in.Graph.Blocks(t.ID))
		depth = in.Graph.Depth(t.ID)
	}

	criticality := Criticality(CriticalityInput{
		Task:           t,
		Project:        in.Project,
		Now:            in.Today,
		MilestoneOrder: milestoneOrder,
		BlocksCount:    blocksCount,
	})

	flexibility := ClassifyFlexibility(t)
	canSplit := CanBeSplit(t)
	bufferDays := BufferDays(t)

	earliestStart := earliestStartFor(t, in)
	latestEnd := latestEndFor(t)
	ideal := idealCompletionDate(t, in.WorkingDays, bufferDays)

	minSession := config.MinSplitMinutes
	maxSession := DefaultMaxSessionMinutes
	estimate := t.EffectiveEstimateMinutes()
	if !canSplit {
		minSession = estimate
		maxSession = estimate
	} else if maxSession > estimate {
		maxSession = estimate
	}

	return &domain.SmartTask{
		Task:        t,
		Criticality: criticality,
		Flexibility: flexibility,

		EarliestStart:       earliestStart,
		LatestEnd:           latestEnd,
		IdealCompletionDate: ideal,
		BufferDays:          bufferDays,

		RequiresHighFocus:     RequiresHighFocus(t),
		CanBeSplit:            canSplit,
		MinimumSessionMinutes: minSession,
		MaximumSessionMinutes: maxSession,
		DependencyDepth:       depth,

		EffectiveEstimateMinutes: estimate,
	}
}

func earliestStartFor(t *domain.Task, in Input) time.Time {
	earliest := timeutil.StartOfDay(in.Today)
	for _, pred := range t.BlockedBy {
		if completion, ok := in.PredecessorCompletionTimes[pred]; ok && completion.After(earliest) {
			earliest = completion
		}
	}
	if t.ScheduledStart != nil && t.ScheduledStart.After(earliest) {
		earliest = *t.ScheduledStart
	}
	return earliest
}

func latestEndFor(t *domain.Task) *time.Time {
	if t.DueDate == nil {
		return nil
	}
	eod := timeutil.EndOfDay(*t.DueDate)
	return &eod
}

func idealCompletionDate(t *domain.Task, workingDays map[int]bool, bufferDays int) *time.Time {
	if t.DueDate == nil {
		return nil
	}
	d := timeutil.AddWorkingDays(*t.DueDate, -bufferDays, workingDays)
	return &d
}

// Sort orders SmartTasks by (descending criticality, ascending
// dependencyDepth, ascending due date with nulls last, ascending
// milestone order) as specified in §4.2's ordering helper.
func Sort(tasks []*domain.SmartTask, milestoneOrderOf func(taskID string) int) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if a.Criticality != b.Criticality {
			return a.Criticality > b.Criticality
		}
		if a.DependencyDepth != b.DependencyDepth {
			return a.DependencyDepth < b.DependencyDepth
		}
		aDue, bDue := a.Task.DueDate, b.Task.DueDate
		if (aDue == nil) != (bDue == nil) {
			return aDue != nil
		}
		if aDue != nil && bDue != nil && !aDue.Equal(*bDue) {
			return aDue.Before(*bDue)
		}
		if milestoneOrderOf != nil {
			ao, bo := milestoneOrderOf(a.ID()), milestoneOrderOf(b.ID())
			if ao != bo {
				return ao < bo
			}
		}
		return a.ID() < b.ID()
	})
}
