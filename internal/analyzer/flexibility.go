package analyzer

import "github.com/mrivera/daypack/internal/domain"

var fixedTags = []string{"meeting", "call", "appointment", "fixed"}
var delegatableTags = []string{"delegatable", "optional"}
var noSplitTags = []string{"no-split", "meeting", "call"}
var highFocusTags = []string{"deep-work", "focus", "creative", "coding", "writing", "design", "analysis"}

// CanBeSplit reports whether a task is eligible for splitting: at least
// 120 minutes and none of the no-split tags.
func CanBeSplit(t *domain.Task) bool {
	if t.EffectiveEstimateMinutes() < 120 {
		return false
	}
	return !t.HasTag(noSplitTags...)
}

// ClassifyFlexibility derives the Flexibility tag from the task's tags and
// split eligibility (§4.2).
func ClassifyFlexibility(t *domain.Task) domain.Flexibility {
	switch {
	case t.HasTag(fixedTags...):
		return domain.FlexibilityFixed
	case t.HasTag(delegatableTags...):
		return domain.FlexibilityDelegatable
	case CanBeSplit(t):
		return domain.FlexibilitySplittable
	default:
		return domain.FlexibilityMovable
	}
}

// BufferDays computes the deadline buffer: base 2, +1 urgent, +1 high,
// +1 estimate>=240, +1 estimate>=480, +1 again for urgent, capped at 5.
func BufferDays(t *domain.Task) int {
	days := 2
	if t.Priority == domain.PriorityUrgent {
		days++
	}
	if t.Priority == domain.PriorityHigh {
		days++
	}
	est := t.EffectiveEstimateMinutes()
	if est >= 240 {
		days++
	}
	if est >= 480 {
		days++
	}
	if t.Priority == domain.PriorityUrgent {
		days++
	}
	if days > 5 {
		return 5
	}
	return days
}

// RequiresHighFocus reports whether a task needs an uninterrupted,
// high-concentration slot.
func RequiresHighFocus(t *domain.Task) bool {
	if t.Priority == domain.PriorityUrgent || t.Priority == domain.PriorityHigh {
		return true
	}
	if t.EffectiveEstimateMinutes() >= 60 {
		return true
	}
	return t.HasTag(highFocusTags...)
}
