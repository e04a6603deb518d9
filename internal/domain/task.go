package domain

import "time"

// Task is an input work item, owned and mutated by external collaborators.
// The engine reads it read-only except for its own ScheduledStart/End
// write-back (§6).
type Task struct {
	ID          string
	Title       string
	Status      TaskStatus
	Priority    Priority

	EstimatedMinutes int // <=0 means unset; EffectiveEstimateMinutes then uses 30
	ActualMinutes    *int // set on completion

	DueDate        *time.Time
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time

	ProjectID   *string
	MilestoneID *string
	Tags        map[string]bool

	BlockedBy []string // task IDs this task depends on
	Blocking  []string // task IDs that depend on this task

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTag reports whether any of names is present in the task's tag set.
func (t *Task) HasTag(names ...string) bool {
	for _, n := range names {
		if t.Tags[n] {
			return true
		}
	}
	return false
}

// EffectiveEstimateMinutes returns EstimatedMinutes, defaulting to 30 when
// unset (<=0), matching the spec's "default 30" data-model rule.
func (t *Task) EffectiveEstimateMinutes() int {
	if t.EstimatedMinutes <= 0 {
		return 30
	}
	return t.EstimatedMinutes
}

// IsSchedulable reports whether a task is eligible for the packer at all —
// completed and cancelled tasks never occupy a slot.
func (t *Task) IsSchedulable() bool {
	return t.Status != TaskCompleted && t.Status != TaskCancelled
}
