package learning

import (
	"testing"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompletion_TrimsToMaxRecords(t *testing.T) {
	d := NewData()
	task := &domain.Task{ID: "t", EstimatedMinutes: 60}
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < maxRecords+10; i++ {
		d = RecordCompletion(d, task, 60, now)
	}

	assert.Len(t, d.CompletionRecords, maxRecords)
}

func TestRecordCompletion_UpdatesCategoryAndProjectMultipliers(t *testing.T) {
	d := NewData()
	projectID := "proj-1"
	task := &domain.Task{
		ID: "t", EstimatedMinutes: 60, ProjectID: &projectID,
		Tags: map[string]bool{"design": true},
	}
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	// Task consistently takes twice the estimate.
	d = RecordCompletion(d, task, 120, now)

	require.Contains(t, d.CategoryMultipliers, "design")
	require.Contains(t, d.ProjectMultipliers, "proj-1")
	// 0.8*1.0 (neutral prior) + 0.2*2.0 = 1.2
	assert.InDelta(t, 1.2, d.CategoryMultipliers["design"], 0.001)
	assert.InDelta(t, 1.2, d.ProjectMultipliers["proj-1"], 0.001)
}

func TestGlobalMultiplier_WeightsRecentRecordsMoreHeavily(t *testing.T) {
	older := CompletionRecord{EstimatedMinutes: 60, ActualMinutes: 120} // ratio 2.0
	recent := CompletionRecord{EstimatedMinutes: 60, ActualMinutes: 60} // ratio 1.0

	got := globalMultiplier([]CompletionRecord{older, recent})

	// Simple average would be 1.5; weighting the more recent (lower) ratio
	// higher pulls the result below that.
	assert.Less(t, got, 1.5)
	assert.InDelta(t, 1.476, got, 0.01)
}

func TestGlobalMultiplier_BoundedToRange(t *testing.T) {
	var extreme []CompletionRecord
	for i := 0; i < 30; i++ {
		extreme = append(extreme, CompletionRecord{EstimatedMinutes: 10, ActualMinutes: 1000})
	}
	assert.LessOrEqual(t, globalMultiplier(extreme), 2.0)

	var tiny []CompletionRecord
	for i := 0; i < 30; i++ {
		tiny = append(tiny, CompletionRecord{EstimatedMinutes: 1000, ActualMinutes: 1})
	}
	assert.GreaterOrEqual(t, globalMultiplier(tiny), 0.5)
}

func TestPeakHours_TopThreeAboveSeventyPercentThreshold(t *testing.T) {
	var hourly [24]float64
	hourly[9] = 2.0  // max
	hourly[10] = 1.6 // 0.8 of max, qualifies
	hourly[11] = 1.5 // 0.75 of max, qualifies
	hourly[14] = 1.3 // 0.65 of max, below threshold
	hourly[15] = 1.4 // 0.70 of max, right at threshold, qualifies

	hours := peakHours(hourly)

	assert.Len(t, hours, 3)
	assert.Equal(t, 9, hours[0])
	assert.Contains(t, hours, 10)
	assert.Contains(t, hours, 11)
	assert.NotContains(t, hours, 14)
}

func TestSortedTags_IsDeterministic(t *testing.T) {
	task := &domain.Task{Tags: map[string]bool{"writing": true, "coding": true, "design": true}}
	tags := sortedTags(task)
	assert.Equal(t, []string{"coding", "design", "writing"}, tags)
}
