package conflict

import (
	"strings"
	"testing"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDetectWarnings_LongBlock(t *testing.T) {
	state := newState()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	addSmartTask(state, &domain.Task{ID: "t"})
	addBlock(state, "t", day, 540, 540+200) // 200 minutes

	warnings := DetectWarnings(state, day)
	assertContains(t, warnings, "block longer than 180 minutes")
}

func TestDetectWarnings_DueSoonUnscheduled(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	due := now.Add(24 * time.Hour)
	state := newState()
	addSmartTask(state, &domain.Task{ID: "t", DueDate: &due})

	warnings := DetectWarnings(state, now)
	assertContains(t, warnings, "due within two days")
}

func TestDetectWarnings_HighFocusOutsidePeak(t *testing.T) {
	state := newState()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	st := addSmartTask(state, &domain.Task{ID: "t"})
	st.RequiresHighFocus = true
	addBlock(state, "t", day, 540, 570)
	state.CapacityByDate["2025-03-10"] = &domain.DayCapacity{
		TimeSlots: []domain.TimeSlot{{StartMinute: 540, EndMinute: 600, Available: false, IsPeakEnergy: false}},
	}

	warnings := DetectWarnings(state, day)
	assertContains(t, warnings, "outside peak hours")
}

func TestDetectWarnings_UtilizationNeedsThreeDays(t *testing.T) {
	state := newState()
	state.CapacityByDate["2025-03-10"] = &domain.DayCapacity{TotalMinutes: 480, ScheduledMinutes: 450}
	state.CapacityByDate["2025-03-11"] = &domain.DayCapacity{TotalMinutes: 480, ScheduledMinutes: 450}

	warnings := DetectWarnings(state, time.Now())
	for _, w := range warnings {
		assert.NotContains(t, w, "85%")
	}

	state.CapacityByDate["2025-03-12"] = &domain.DayCapacity{TotalMinutes: 480, ScheduledMinutes: 450}
	warnings = DetectWarnings(state, time.Now())
	assertContains(t, warnings, "85%")
}

func assertContains(t *testing.T, list []string, substr string) {
	t.Helper()
	for _, s := range list {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Fatalf("expected a warning containing %q, got %v", substr, list)
}
