// Package capacity implements C3: constructing, reserving, and querying
// per-day DayCapacity models (§4.3).
package capacity

import "fmt"

// ErrNoFit is returned by Reserve when no single available slot is large
// enough to hold the requested duration.
type ErrNoFit struct {
	DurationMinutes int
}

func (e *ErrNoFit) Error() string {
	return fmt.Sprintf("no available slot fits %d minutes", e.DurationMinutes)
}
