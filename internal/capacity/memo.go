package capacity

import (
	"github.com/mitchellh/hashstructure/v2"
	"github.com/mrivera/daypack/internal/domain"
)

// probeKey is hashed to memoize a FindBestSlot probe. It captures every
// input FindBestSlot's result depends on — the day's current tiling plus
// the query parameters — so a cache hit is only possible when nothing
// relevant has changed since the last probe of the same shape.
type probeKey struct {
	Slots      []domain.TimeSlot
	Duration   int
	PreferPeak bool
	AvoidPeak  bool
}

// ProbeCache memoizes FindBestSlot calls across the repeated day-by-day
// probing the fill and critical-path passes do while placing tasks. Each
// placement commits a Reserve to the day's TimeSlots, which changes the
// slot tiling and therefore the hash, so a commit naturally invalidates
// every cached probe against that day without any explicit eviction.
type ProbeCache struct {
	hits map[uint64]probeResult
}

type probeResult struct {
	slot  domain.TimeSlot
	found bool
}

// NewProbeCache returns an empty cache.
func NewProbeCache() *ProbeCache {
	return &ProbeCache{hits: make(map[uint64]probeResult)}
}

// FindBestSlot is FindBestSlot, memoized against c. A nil receiver falls
// through to the unmemoized lookup.
func (c *ProbeCache) FindBestSlot(cap *domain.DayCapacity, duration int, preferPeak, avoidPeak bool) (*domain.TimeSlot, bool) {
	if c == nil {
		return FindBestSlot(cap, duration, preferPeak, avoidPeak)
	}

	key := probeKey{Slots: cap.TimeSlots, Duration: duration, PreferPeak: preferPeak, AvoidPeak: avoidPeak}
	h, err := hashstructure.Hash(key, hashstructure.FormatV2, nil)
	if err != nil {
		return FindBestSlot(cap, duration, preferPeak, avoidPeak)
	}

	if r, ok := c.hits[h]; ok {
		if !r.found {
			return nil, false
		}
		slot := r.slot
		return &slot, true
	}

	slot, found := FindBestSlot(cap, duration, preferPeak, avoidPeak)
	r := probeResult{found: found}
	if found {
		r.slot = *slot
	}
	c.hits[h] = r
	return slot, found
}
