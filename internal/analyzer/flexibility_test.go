package analyzer

import (
	"testing"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func tags(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestClassifyFlexibility(t *testing.T) {
	cases := []struct {
		name string
		task *domain.Task
		want domain.Flexibility
	}{
		{"meeting tag is fixed", &domain.Task{Tags: tags("meeting"), EstimatedMinutes: 200}, domain.FlexibilityFixed},
		{"delegatable tag", &domain.Task{Tags: tags("delegatable"), EstimatedMinutes: 200}, domain.FlexibilityDelegatable},
		{"long task with no blocking tag splits", &domain.Task{EstimatedMinutes: 150}, domain.FlexibilitySplittable},
		{"long task tagged no-split stays movable", &domain.Task{Tags: tags("no-split"), EstimatedMinutes: 150}, domain.FlexibilityMovable},
		{"short task is movable", &domain.Task{EstimatedMinutes: 30}, domain.FlexibilityMovable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyFlexibility(tc.task))
		})
	}
}

func TestBufferDays(t *testing.T) {
	assert.Equal(t, 2, BufferDays(&domain.Task{Priority: domain.PriorityLow, EstimatedMinutes: 30}))
	assert.Equal(t, 5, BufferDays(&domain.Task{Priority: domain.PriorityUrgent, EstimatedMinutes: 500}))
	assert.Equal(t, 3, BufferDays(&domain.Task{Priority: domain.PriorityHigh, EstimatedMinutes: 30}))
}

func TestRequiresHighFocus(t *testing.T) {
	assert.True(t, RequiresHighFocus(&domain.Task{Priority: domain.PriorityUrgent, EstimatedMinutes: 10}))
	assert.True(t, RequiresHighFocus(&domain.Task{Priority: domain.PriorityLow, EstimatedMinutes: 90}))
	assert.True(t, RequiresHighFocus(&domain.Task{Priority: domain.PriorityLow, EstimatedMinutes: 10, Tags: tags("deep-work")}))
	assert.False(t, RequiresHighFocus(&domain.Task{Priority: domain.PriorityLow, EstimatedMinutes: 10}))
}
