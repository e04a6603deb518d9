package capacity

import (
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// FindBestSlot picks the available slot to place a duration-minute block
// in, honoring a peak-energy preference: preferPeak favors slots tagged
// IsPeakEnergy (high-focus work), avoidPeak favors slots that aren't, and
// neither flag falls back to the earliest slot that fits. The returned slot
// is trimmed to exactly duration minutes starting at the chosen position.
func FindBestSlot(cap *domain.DayCapacity, duration int, preferPeak, avoidPeak bool) (*domain.TimeSlot, bool) {
	var fits []domain.TimeSlot
	for _, s := range cap.TimeSlots {
		if s.Available && s.DurationMinutes() >= duration {
			fits = append(fits, s)
		}
	}
	if len(fits) == 0 {
		return nil, false
	}

	pick := func(want func(domain.TimeSlot) bool) *domain.TimeSlot {
		var best *domain.TimeSlot
		for i := range fits {
			if !want(fits[i]) {
				continue
			}
			if best == nil || fits[i].StartMinute < best.StartMinute {
				s := fits[i]
				best = &s
			}
		}
		return best
	}

	var chosen *domain.TimeSlot
	switch {
	case preferPeak:
		chosen = pick(func(s domain.TimeSlot) bool { return s.IsPeakEnergy })
	case avoidPeak:
		chosen = pick(func(s domain.TimeSlot) bool { return !s.IsPeakEnergy })
	}
	if chosen == nil {
		chosen = pick(func(domain.TimeSlot) bool { return true })
	}

	result := domain.TimeSlot{
		StartMinute:  chosen.StartMinute,
		EndMinute:    chosen.StartMinute + duration,
		Available:    true,
		IsPeakEnergy: chosen.IsPeakEnergy,
		IsLowEnergy:  chosen.IsLowEnergy,
	}
	return &result, true
}

// FindBestDayForTask searches dates up to latestEnd for one able to hold a
// duration-minute block, trying them in orderedCandidates' order: nearest
// to idealDate first (earlier and later dates alike, ties chronological),
// or chronologically when idealDate is nil. When no date has enough free
// capacity and allowOvertime is set, it falls back to the first date in
// that same order whose overtime, after adding duration, would stay within
// maxOvertimeMinutes.
func FindBestDayForTask(
	dates []time.Time,
	capacities map[string]*domain.DayCapacity,
	durationMinutes int,
	idealDate *time.Time,
	latestEnd *time.Time,
	allowOvertime bool,
	maxOvertimeMinutes int,
	cache *ProbeCache,
) (time.Time, bool) {
	ordered := orderedCandidates(dates, idealDate, latestEnd)

	for _, d := range ordered {
		cap := capacities[timeutil.DateKey(d)]
		if cap == nil {
			continue
		}
		if _, ok := cache.FindBestSlot(cap, durationMinutes, false, false); ok {
			return d, true
		}
	}

	if allowOvertime {
		for _, d := range ordered {
			cap := capacities[timeutil.DateKey(d)]
			if cap == nil {
				continue
			}
			if cap.ScheduledMinutes+durationMinutes-cap.TotalMinutes <= maxOvertimeMinutes {
				return d, true
			}
		}
	}

	return time.Time{}, false
}

// orderedCandidates returns dates on or before latestEnd (when set), ordered
// by ascending distance from idealDate when given (ties broken
// chronologically), or chronologically when idealDate is nil.
func orderedCandidates(dates []time.Time, idealDate, latestEnd *time.Time) []time.Time {
	var in []time.Time
	for _, d := range dates {
		if latestEnd != nil && d.After(timeutil.StartOfDay(*latestEnd)) {
			continue
		}
		in = append(in, d)
	}
	if idealDate == nil {
		return in
	}
	ideal := timeutil.StartOfDay(*idealDate)
	out := make([]time.Time, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		di := distanceDays(out[i], ideal)
		dj := distanceDays(out[j], ideal)
		if di != dj {
			return di < dj
		}
		return out[i].Before(out[j])
	})
	return out
}

func distanceDays(d, ideal time.Time) int {
	diff := int(d.Sub(ideal).Hours() / 24)
	if diff < 0 {
		return -diff
	}
	return diff
}
