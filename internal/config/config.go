// Package config defines the strict SchedulerConfig surface (§6). Unknown
// options are a compile-time error — there is no free-form property bag.
package config

import (
	"time"

	"github.com/mrivera/daypack/internal/domain"
)

// SchedulerConfig enumerates every tunable the engine honors.
type SchedulerConfig struct {
	StartDate time.Time
	EndDate   time.Time

	WorkingDays map[int]bool // subset of 0..6, 0=Sunday

	WorkingHoursStart string // "HH:MM"
	WorkingHoursEnd   string

	LunchBreakStart *string // "HH:MM", nil if no lunch block
	LunchBreakEnd   *string

	DeadlineBufferDays int
	StrictDeadlines    bool
	AllowBufferReduction bool

	MaxHoursPerDay    float64
	TargetHoursPerDay float64

	AllowOvertime    bool
	MaxOvertimeHours float64

	IntensityMode IntensityModeConfig

	BreaksBetweenTasksMinutes int

	DistributionMode domain.DistributionMode

	BatchSimilarTasks bool

	FocusProjectIDs   map[string]bool
	FocusProjectRatio float64

	EnergyProfile *domain.EnergyProfile

	ScheduleHighFocusInPeak bool

	AutoResolveConflicts       bool
	ConflictResolutionStrategy domain.ConflictResolutionStrategy
}

// IntensityModeConfig is an alias kept distinct from domain.IntensityMode
// so the config surface can evolve independently of the enum's methods;
// today it is simply domain.IntensityMode.
type IntensityModeConfig = domain.IntensityMode

// DefaultMaxOvertimeMinutes is the default cap used by the conflict detector when
// a config doesn't specify one explicitly via MaxOvertimeHours.
const DefaultMaxOvertimeMinutes = 120

// TransitionBreakMinutes is the constant 5-minute tail reserved after every
// reserved block — distinct from the configurable DeadlineBufferDays (§9).
const TransitionBreakMinutes = 5

// MinSplitMinutes is the minimum size of a session produced by splitting a
// task across multiple slots.
const MinSplitMinutes = 30

// NewDefaultConfig returns a SchedulerConfig with the spec's scenario
// defaults: Mon-Fri, 09:00-17:00, lunch 12:00-13:00, balanced intensity,
// no overtime.
func NewDefaultConfig(startDate, endDate time.Time) SchedulerConfig {
	lunchStart, lunchEnd := "12:00", "13:00"
	return SchedulerConfig{
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},

		WorkingHoursStart: "09:00",
		WorkingHoursEnd:   "17:00",

		LunchBreakStart: &lunchStart,
		LunchBreakEnd:   &lunchEnd,

		DeadlineBufferDays: 2,
		StrictDeadlines:    false,

		MaxHoursPerDay:    8,
		TargetHoursPerDay: 6,

		AllowOvertime:    false,
		MaxOvertimeHours: 2,

		IntensityMode: domain.IntensityBalanced,

		BreaksBetweenTasksMinutes: TransitionBreakMinutes,

		DistributionMode: domain.DistributionEven,

		FocusProjectRatio: 0,

		ConflictResolutionStrategy: domain.ResolutionConservative,
	}
}

// MaxOvertimeMinutes returns MaxOvertimeHours in minutes, falling back to
// DefaultMaxOvertimeMinutes when unset.
func (c *SchedulerConfig) MaxOvertimeMinutes() int {
	if c.MaxOvertimeHours <= 0 {
		return DefaultMaxOvertimeMinutes
	}
	return int(c.MaxOvertimeHours * 60)
}
