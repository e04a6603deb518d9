package conflict

import (
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// DetectWarnings returns the softer, non-Conflict advisory strings (§4.4):
// days over 85% utilization (only reported once at least 3 such days
// exist), tasks due within two days that are still unscheduled, any block
// longer than 180 minutes, and high-focus blocks placed outside peak
// energy hours.
func DetectWarnings(state *domain.SchedulerState, now time.Time) []string {
	var warnings []string

	overUtilized := 0
	for _, key := range sortedCapacityKeys(state.CapacityByDate) {
		if state.CapacityByDate[key].Utilization() >= 85 {
			overUtilized++
		}
	}
	if overUtilized >= 3 {
		warnings = append(warnings, fmt.Sprintf("%d days are scheduled over 85%% utilization", overUtilized))
	}

	for _, id := range sortedSmartTaskKeys(state.SmartTasks) {
		task := state.SmartTasks[id].Task
		if !state.Unscheduled[id] || task.DueDate == nil {
			continue
		}
		if task.DueDate.Sub(now) <= 48*time.Hour {
			warnings = append(warnings, fmt.Sprintf("%s is due within two days and still unscheduled", id))
		}
	}

	for i := range state.Blocks {
		b := &state.Blocks[i]
		if b.DurationMinutes() > 180 {
			warnings = append(warnings, fmt.Sprintf("%s has a block longer than 180 minutes", b.TaskID))
		}
	}

	for i := range state.Blocks {
		b := &state.Blocks[i]
		st, ok := state.SmartTasks[b.TaskID]
		if !ok || !st.RequiresHighFocus {
			continue
		}
		cap := state.CapacityByDate[timeutil.DateKey(b.Date)]
		if cap == nil {
			continue
		}
		if !slotIsPeak(cap, b.StartMinute) {
			warnings = append(warnings, fmt.Sprintf("%s requires high focus but is scheduled outside peak hours", b.TaskID))
		}
	}

	return warnings
}

func slotIsPeak(cap *domain.DayCapacity, minute int) bool {
	for _, s := range cap.TimeSlots {
		if minute >= s.StartMinute && minute < s.EndMinute {
			return s.IsPeakEnergy
		}
	}
	return false
}
