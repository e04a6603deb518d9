package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeCache_CachesIdenticalProbe(t *testing.T) {
	cache := NewProbeCache()
	cap := plainCapacity()

	slot1, ok1 := cache.FindBestSlot(cap, 30, false, false)
	slot2, ok2 := cache.FindBestSlot(cap, 30, false, false)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, slot1.StartMinute, slot2.StartMinute)
}

func TestProbeCache_InvalidatesAfterReserve(t *testing.T) {
	cache := NewProbeCache()
	cap := plainCapacity()

	first, ok := cache.FindBestSlot(cap, 60, false, false)
	require.True(t, ok)

	require.NoError(t, Reserve(cap, first.StartMinute, first.DurationMinutes(), "task-1", 0))

	second, ok := cache.FindBestSlot(cap, 60, false, false)
	require.True(t, ok)
	assert.NotEqual(t, first.StartMinute, second.StartMinute)
}

func TestProbeCache_NilReceiverFallsThrough(t *testing.T) {
	var cache *ProbeCache
	cap := plainCapacity()
	slot, ok := cache.FindBestSlot(cap, 30, false, false)
	require.True(t, ok)
	assert.Equal(t, 540, slot.StartMinute)
}
