package domain

// EnergyProfile parametrizes which hours of the day are peak/low energy,
// used by C3 to annotate TimeSlots and by C5 to prefer placing high-focus
// tasks in peak windows.
type EnergyProfile struct {
	Type EnergyProfileType

	// PeakHours/LowEnergyHours are hour-of-day values (0-23). When both are
	// empty, DefaultWindowsFor(Type) supplies the preset for Type.
	PeakHours      []int
	LowEnergyHours []int
}

// DefaultWindowsFor returns the built-in peak/low windows for a profile
// type, used when the caller hasn't overridden PeakHours/LowEnergyHours.
func DefaultWindowsFor(t EnergyProfileType) (peak, low []int) {
	switch t {
	case EnergyMorningPerson:
		return []int{8, 9, 10, 11}, []int{14, 15, 21, 22, 23}
	case EnergyNightOwl:
		return []int{19, 20, 21, 22}, []int{7, 8, 9, 13}
	default: // EnergySteady
		return []int{10, 11, 14, 15}, []int{13}
	}
}

// ResolvedWindows returns the profile's effective peak/low hour sets,
// falling back to the type's preset when explicit hours aren't given.
func (p *EnergyProfile) ResolvedWindows() (peak, low map[int]bool) {
	peakHours, lowHours := p.PeakHours, p.LowEnergyHours
	if len(peakHours) == 0 && len(lowHours) == 0 {
		peakHours, lowHours = DefaultWindowsFor(p.Type)
	}
	peak = make(map[int]bool, len(peakHours))
	for _, h := range peakHours {
		peak[h] = true
	}
	low = make(map[int]bool, len(lowHours))
	for _, h := range lowHours {
		low[h] = true
	}
	return peak, low
}
