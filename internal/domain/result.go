package domain

import "time"

// SchedulePreview summarizes one day's outcome after a scheduling run.
type SchedulePreview struct {
	Date     time.Time
	Slots    []ScheduledBlock
	Summary  string
	Warnings []string
}

// CapacitySummary aggregates utilization across the whole scheduling
// window.
type CapacitySummary struct {
	TotalDays          int
	WorkingDays        int
	TotalCapacityHours float64
	TotalDemandHours   float64
	Utilization        float64
	OverloadedDays     int
}

// SchedulingResult is what scheduleAll (C5) returns — a partial schedule is
// never an error, only ill-formed input is (§4.5).
type SchedulingResult struct {
	Success          bool
	ScheduledCount   int
	UnscheduledCount int

	Previews []SchedulePreview

	Conflicts       []Conflict
	Warnings        []string
	Recommendations []string

	CapacitySummary CapacitySummary

	UnscheduledTasks   []string
	UnscheduledReasons map[string]string
}
