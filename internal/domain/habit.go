package domain

// Habit is a recurring personal activity that contributes blocked time to
// the capacity model; it never becomes a Task.
type Habit struct {
	ID       string
	Title    string
	Frequency HabitFrequency

	// ScheduledTime, when set, is "HH:MM" and the habit only blocks time on
	// days it applies to. A habit without a scheduled time contributes no
	// capacity block (it's tracked for reference only).
	ScheduledTime *string
	DurationMinutes int

	// Weekdays restricts a "custom" frequency habit to specific weekdays
	// (0=Sunday..6=Saturday). Ignored for "daily"; "weekly" applies to
	// every weekday present here (commonly a single day).
	Weekdays map[int]bool

	Active bool
}

// AppliesTo reports whether the habit blocks time on weekday wd
// (0=Sunday..6=Saturday).
func (h *Habit) AppliesTo(wd int) bool {
	if !h.Active || h.ScheduledTime == nil {
		return false
	}
	switch h.Frequency {
	case HabitDaily:
		return true
	case HabitWeekly, HabitCustom:
		return h.Weekdays[wd]
	default:
		return false
	}
}
