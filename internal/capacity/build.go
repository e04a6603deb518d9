package capacity

import (
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// ExternalBlock is a blocked interval supplied to BuildDayCapacity from
// outside the habit list — an already-scheduled, non-completed task or an
// external calendar entry.
type ExternalBlock struct {
	StartMinute int
	EndMinute   int
	Source      domain.BlockSource
	TaskID      string
}

// sourcePriority ranks which ExternalBlock/habit wins when two raw blocks
// overlap and must be merged into one tiling entry. Tasks always win so a
// merged slot still reports the right TaskID for Reserve/conflict lookups.
func sourcePriority(s domain.BlockSource) int {
	switch s {
	case domain.SourceTask:
		return 4
	case domain.SourceFocusBlock:
		return 3
	case domain.SourceHabit:
		return 2
	case domain.SourceLunch:
		return 1
	default: // SourceCalendar and anything else
		return 0
	}
}

// BuildDayCapacity assembles the DayCapacity tiling for one date: it
// collects habit, lunch, and external blocks, clips them to the working
// window, merges overlaps, and fills the gaps between them with available
// slots annotated with the energy profile's peak/low windows (§4.3).
func BuildDayCapacity(date time.Time, cfg *config.SchedulerConfig, habits []*domain.Habit, external []ExternalBlock) (*domain.DayCapacity, error) {
	workStart, err := timeutil.ToMinutes(cfg.WorkingHoursStart)
	if err != nil {
		return nil, err
	}
	workEnd, err := timeutil.ToMinutes(cfg.WorkingHoursEnd)
	if err != nil {
		return nil, err
	}

	day := timeutil.StartOfDay(date)
	weekday := int(day.Weekday())

	var raw []ExternalBlock
	for _, h := range habits {
		if !h.AppliesTo(weekday) {
			continue
		}
		start, err := timeutil.ToMinutes(*h.ScheduledTime)
		if err != nil {
			continue
		}
		raw = append(raw, ExternalBlock{
			StartMinute: start,
			EndMinute:   start + h.DurationMinutes,
			Source:      domain.SourceHabit,
		})
	}
	if cfg.LunchBreakStart != nil && cfg.LunchBreakEnd != nil {
		lunchStart, errS := timeutil.ToMinutes(*cfg.LunchBreakStart)
		lunchEnd, errE := timeutil.ToMinutes(*cfg.LunchBreakEnd)
		if errS == nil && errE == nil && lunchEnd > lunchStart {
			raw = append(raw, ExternalBlock{StartMinute: lunchStart, EndMinute: lunchEnd, Source: domain.SourceLunch})
		}
	}
	raw = append(raw, external...)

	merged := mergeBlocks(raw, workStart, workEnd)

	slots := tile(merged, workStart, workEnd)

	var peak, low map[int]bool
	if cfg.EnergyProfile != nil {
		peak, low = cfg.EnergyProfile.ResolvedWindows()
	}
	for i := range slots {
		hour := slots[i].StartMinute / 60
		slots[i].IsPeakEnergy = peak[hour]
		slots[i].IsLowEnergy = low[hour]
	}

	cap := &domain.DayCapacity{
		Date:            day,
		WorkStartMinute: workStart,
		WorkEndMinute:   workEnd,
		TotalMinutes:    workEnd - workStart,
		TimeSlots:       slots,
	}

	for _, s := range slots {
		if !s.Available {
			cap.ScheduledMinutes += s.DurationMinutes()
		} else {
			cap.AvailableMinutes += s.DurationMinutes()
		}
	}

	return cap, nil
}

// mergeBlocks clips raw intervals to [workStart, workEnd), sorts them, and
// merges any that overlap or touch into a single interval tagged with the
// highest-priority source among its contributors.
func mergeBlocks(raw []ExternalBlock, workStart, workEnd int) []ExternalBlock {
	var clipped []ExternalBlock
	for _, b := range raw {
		start, end := b.StartMinute, b.EndMinute
		if start < workStart {
			start = workStart
		}
		if end > workEnd {
			end = workEnd
		}
		if end <= start {
			continue
		}
		clipped = append(clipped, ExternalBlock{StartMinute: start, EndMinute: end, Source: b.Source, TaskID: b.TaskID})
	}
	if len(clipped) == 0 {
		return nil
	}

	sort.Slice(clipped, func(i, j int) bool {
		if clipped[i].StartMinute != clipped[j].StartMinute {
			return clipped[i].StartMinute < clipped[j].StartMinute
		}
		return clipped[i].EndMinute < clipped[j].EndMinute
	})

	merged := []ExternalBlock{clipped[0]}
	for _, b := range clipped[1:] {
		last := &merged[len(merged)-1]
		if b.StartMinute > last.EndMinute {
			merged = append(merged, b)
			continue
		}
		if b.EndMinute > last.EndMinute {
			last.EndMinute = b.EndMinute
		}
		if sourcePriority(b.Source) > sourcePriority(last.Source) {
			last.Source = b.Source
			last.TaskID = b.TaskID
		}
	}
	return merged
}

// tile fills the gaps between merged blocked intervals with available
// slots, producing a complete [workStart, workEnd) tiling.
func tile(merged []ExternalBlock, workStart, workEnd int) []domain.TimeSlot {
	var slots []domain.TimeSlot
	cursor := workStart
	for _, b := range merged {
		if b.StartMinute > cursor {
			slots = append(slots, domain.TimeSlot{StartMinute: cursor, EndMinute: b.StartMinute, Available: true})
		}
		slots = append(slots, domain.TimeSlot{StartMinute: b.StartMinute, EndMinute: b.EndMinute, Source: b.Source, TaskID: b.TaskID})
		cursor = b.EndMinute
	}
	if cursor < workEnd {
		slots = append(slots, domain.TimeSlot{StartMinute: cursor, EndMinute: workEnd, Available: true})
	}
	return slots
}
