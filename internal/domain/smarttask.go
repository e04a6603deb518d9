package domain

import "time"

// SmartTask extends a Task with scheduler-derived fields (§4.2, C2). It is
// reconstructed per scheduling run and never persisted.
type SmartTask struct {
	Task *Task

	Criticality int // 0-100
	Flexibility Flexibility

	EarliestStart       time.Time
	LatestEnd           *time.Time // end-of-day of due date, nil if none
	IdealCompletionDate *time.Time
	BufferDays          int

	RequiresHighFocus bool
	PreferredTimeOfDay *string // optional "HH:MM" hint, caller-supplied
	CanBeSplit         bool
	MinimumSessionMinutes int
	MaximumSessionMinutes int
	DependencyDepth       int

	// EffectiveEstimateMinutes is the duration the packer uses: the raw
	// Task estimate (Task.EffectiveEstimateMinutes). Learning-based
	// calibration (C8) is not applied here; there is no setting that
	// switches it on.
	EffectiveEstimateMinutes int
}

// ID is a convenience accessor to the underlying task's identity.
func (s *SmartTask) ID() string { return s.Task.ID }
