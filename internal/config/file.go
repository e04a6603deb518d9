package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors SchedulerConfig's tunables in a YAML-friendly shape —
// a strict, enumerated set of fields (§9's anti-goal for "configuration as
// free-form property bags"); unknown keys are rejected.
type fileConfig struct {
	StartDate string `yaml:"startDate"`
	EndDate   string `yaml:"endDate"`

	WorkingDays []int `yaml:"workingDays"`

	WorkingHoursStart string `yaml:"workingHoursStart"`
	WorkingHoursEnd   string `yaml:"workingHoursEnd"`

	LunchBreakStart *string `yaml:"lunchBreakStart"`
	LunchBreakEnd   *string `yaml:"lunchBreakEnd"`

	DeadlineBufferDays  int  `yaml:"deadlineBufferDays"`
	StrictDeadlines     bool `yaml:"strictDeadlines"`
	AllowBufferReduction bool `yaml:"allowBufferReduction"`

	MaxHoursPerDay    float64 `yaml:"maxHoursPerDay"`
	TargetHoursPerDay float64 `yaml:"targetHoursPerDay"`

	AllowOvertime    bool    `yaml:"allowOvertime"`
	MaxOvertimeHours float64 `yaml:"maxOvertimeHours"`

	IntensityMode string `yaml:"intensityMode"`

	BreaksBetweenTasksMinutes int `yaml:"breaksBetweenTasksMinutes"`

	DistributionMode string `yaml:"distributionMode"`

	BatchSimilarTasks bool `yaml:"batchSimilarTasks"`

	FocusProjectIDs   []string `yaml:"focusProjectIds"`
	FocusProjectRatio float64  `yaml:"focusProjectRatio"`

	EnergyProfile *struct {
		Type           string `yaml:"type"`
		PeakHours      []int  `yaml:"peakHours"`
		LowEnergyHours []int  `yaml:"lowEnergyHours"`
	} `yaml:"energyProfile"`

	ScheduleHighFocusInPeak bool `yaml:"scheduleHighFocusInPeak"`

	AutoResolveConflicts       bool   `yaml:"autoResolveConflicts"`
	ConflictResolutionStrategy string `yaml:"conflictResolutionStrategy"`
}

const fileDateLayout = "2006-01-02"

// LoadConfigFile reads a YAML scheduler-config file (the `--config` flag
// surface) and overlays it onto NewDefaultConfig, so a file only needs to
// specify the tunables it wants to override.
func LoadConfigFile(path string) (SchedulerConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return SchedulerConfig{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	start, err := time.Parse(fileDateLayout, fc.StartDate)
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("invalid startDate %q: %w", fc.StartDate, err)
	}
	end, err := time.Parse(fileDateLayout, fc.EndDate)
	if err != nil {
		return SchedulerConfig{}, fmt.Errorf("invalid endDate %q: %w", fc.EndDate, err)
	}

	cfg := NewDefaultConfig(start, end)

	if len(fc.WorkingDays) > 0 {
		cfg.WorkingDays = make(map[int]bool, len(fc.WorkingDays))
		for _, d := range fc.WorkingDays {
			cfg.WorkingDays[d] = true
		}
	}
	if fc.WorkingHoursStart != "" {
		cfg.WorkingHoursStart = fc.WorkingHoursStart
	}
	if fc.WorkingHoursEnd != "" {
		cfg.WorkingHoursEnd = fc.WorkingHoursEnd
	}
	if fc.LunchBreakStart != nil {
		cfg.LunchBreakStart = fc.LunchBreakStart
	}
	if fc.LunchBreakEnd != nil {
		cfg.LunchBreakEnd = fc.LunchBreakEnd
	}

	if fc.DeadlineBufferDays > 0 {
		cfg.DeadlineBufferDays = fc.DeadlineBufferDays
	}
	cfg.StrictDeadlines = fc.StrictDeadlines
	cfg.AllowBufferReduction = fc.AllowBufferReduction

	if fc.MaxHoursPerDay > 0 {
		cfg.MaxHoursPerDay = fc.MaxHoursPerDay
	}
	if fc.TargetHoursPerDay > 0 {
		cfg.TargetHoursPerDay = fc.TargetHoursPerDay
	}

	cfg.AllowOvertime = fc.AllowOvertime
	if fc.MaxOvertimeHours > 0 {
		cfg.MaxOvertimeHours = fc.MaxOvertimeHours
	}

	if fc.IntensityMode != "" {
		cfg.IntensityMode = domain.IntensityMode(fc.IntensityMode)
	}
	if fc.BreaksBetweenTasksMinutes > 0 {
		cfg.BreaksBetweenTasksMinutes = fc.BreaksBetweenTasksMinutes
	}
	if fc.DistributionMode != "" {
		cfg.DistributionMode = domain.DistributionMode(fc.DistributionMode)
	}
	cfg.BatchSimilarTasks = fc.BatchSimilarTasks

	if len(fc.FocusProjectIDs) > 0 {
		cfg.FocusProjectIDs = make(map[string]bool, len(fc.FocusProjectIDs))
		for _, id := range fc.FocusProjectIDs {
			cfg.FocusProjectIDs[id] = true
		}
	}
	cfg.FocusProjectRatio = fc.FocusProjectRatio

	if fc.EnergyProfile != nil {
		cfg.EnergyProfile = &domain.EnergyProfile{
			Type:           domain.EnergyProfileType(fc.EnergyProfile.Type),
			PeakHours:      fc.EnergyProfile.PeakHours,
			LowEnergyHours: fc.EnergyProfile.LowEnergyHours,
		}
	}
	cfg.ScheduleHighFocusInPeak = fc.ScheduleHighFocusInPeak

	cfg.AutoResolveConflicts = fc.AutoResolveConflicts
	if fc.ConflictResolutionStrategy != "" {
		cfg.ConflictResolutionStrategy = domain.ConflictResolutionStrategy(fc.ConflictResolutionStrategy)
	}

	return cfg, nil
}
