// Package conflict implements C4: the five independent post-hoc detectors
// that scan a SchedulerState for constraint violations, plus the softer
// warning categories.
package conflict

import (
	"fmt"
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/timeutil"
)

// DetectAll runs every detector over state and returns the combined,
// deterministically ordered conflict list. It is pure: repeated calls on
// the same state yield equal sets (§3 invariant).
func DetectAll(state *domain.SchedulerState, cfg *config.SchedulerConfig, now time.Time) []domain.Conflict {
	var conflicts []domain.Conflict
	conflicts = append(conflicts, detectCollisions(state)...)
	conflicts = append(conflicts, detectOverloads(state, cfg)...)
	conflicts = append(conflicts, detectDeadlineMisses(state, now)...)
	conflicts = append(conflicts, detectDependencyViolations(state)...)
	conflicts = append(conflicts, detectInsufficientBuffer(state, cfg)...)
	return conflicts
}

// detectCollisions finds, per day, any two blocks whose half-open
// intervals intersect.
func detectCollisions(state *domain.SchedulerState) []domain.Conflict {
	byDate := make(map[string][]*domain.ScheduledBlock)
	for i := range state.Blocks {
		b := &state.Blocks[i]
		key := timeutil.DateKey(b.Date)
		byDate[key] = append(byDate[key], b)
	}

	var out []domain.Conflict
	for _, dateKey := range sortedKeys(byDate) {
		blocks := byDate[dateKey]
		sort.Slice(blocks, func(i, j int) bool { return blocks[i].StartMinute < blocks[j].StartMinute })
		for i := 0; i < len(blocks); i++ {
			for j := i + 1; j < len(blocks); j++ {
				if blocks[i].Overlaps(blocks[j]) {
					out = append(out, domain.Conflict{
						Type:            domain.ConflictCollision,
						Severity:        domain.SeverityCritical,
						AffectedTaskIDs: []string{blocks[i].TaskID, blocks[j].TaskID},
						AffectedDates:   []string{dateKey},
						Description:     fmt.Sprintf("%s and %s overlap on %s", blocks[i].TaskID, blocks[j].TaskID, dateKey),
						AutoResolvable:  true,
					})
				}
			}
		}
	}
	return out
}

// detectOverloads flags any day whose capacity IsOverloaded.
func detectOverloads(state *domain.SchedulerState, cfg *config.SchedulerConfig) []domain.Conflict {
	var out []domain.Conflict
	maxOvertime := cfg.MaxOvertimeMinutes()
	for _, dateKey := range sortedCapacityKeys(state.CapacityByDate) {
		cap := state.CapacityByDate[dateKey]
		if !cap.IsOverloaded() {
			continue
		}
		severity := domain.SeverityWarning
		autoResolvable := true
		if cap.OvertimeMinutes() > maxOvertime {
			severity = domain.SeverityCritical
			autoResolvable = false
		}
		out = append(out, domain.Conflict{
			Type:            domain.ConflictOverload,
			Severity:        severity,
			AffectedDates:   []string{dateKey},
			Description:     fmt.Sprintf("%s is overloaded by %d minutes", dateKey, cap.OvertimeMinutes()),
			AutoResolvable:  autoResolvable,
		})
	}
	return out
}

// detectDeadlineMisses covers two cases: an unscheduled task whose due
// date is already in the past, and a scheduled task whose last block ends
// after its due date.
func detectDeadlineMisses(state *domain.SchedulerState, now time.Time) []domain.Conflict {
	var out []domain.Conflict
	for _, id := range sortedSmartTaskKeys(state.SmartTasks) {
		st := state.SmartTasks[id]
		task := st.Task
		if !task.IsSchedulable() || task.DueDate == nil {
			continue
		}
		if state.Unscheduled[id] && task.DueDate.Before(now) {
			out = append(out, domain.Conflict{
				Type:            domain.ConflictDeadlineMiss,
				Severity:        domain.SeverityCritical,
				AffectedTaskIDs: []string{id},
				Description:     fmt.Sprintf("%s is unscheduled and already past its due date", id),
				AutoResolvable:  false,
			})
			continue
		}
		blocks := state.BlocksForTask(id)
		if len(blocks) == 0 {
			continue
		}
		last := blocks[0]
		for _, b := range blocks {
			if b.EndTime().After(last.EndTime()) {
				last = b
			}
		}
		if last.EndTime().After(*task.DueDate) {
			out = append(out, domain.Conflict{
				Type:            domain.ConflictDeadlineMiss,
				Severity:        domain.SeverityCritical,
				AffectedTaskIDs: []string{id},
				AffectedDates:   []string{timeutil.DateKey(last.Date)},
				Description:     fmt.Sprintf("%s is scheduled to finish after its due date", id),
				AutoResolvable:  true,
			})
		}
	}
	return out
}

// detectDependencyViolations checks every (A blocks B) pair with both
// scheduled: A must start before B starts. A scheduled consequent whose
// predecessor is unscheduled is a softer warning.
func detectDependencyViolations(state *domain.SchedulerState) []domain.Conflict {
	var out []domain.Conflict
	for _, bID := range sortedSmartTaskKeys(state.SmartTasks) {
		consequent := state.SmartTasks[bID].Task
		if len(consequent.BlockedBy) == 0 {
			continue
		}
		consequentBlocks := state.BlocksForTask(bID)
		if len(consequentBlocks) == 0 {
			continue
		}
		bStart := earliestStart(consequentBlocks)

		for _, aID := range consequent.BlockedBy {
			predBlocks := state.BlocksForTask(aID)
			if len(predBlocks) == 0 {
				out = append(out, domain.Conflict{
					Type:            domain.ConflictDependencyViolation,
					Severity:        domain.SeverityWarning,
					AffectedTaskIDs: []string{aID, bID},
					Description:     fmt.Sprintf("%s is scheduled but its predecessor %s is not", bID, aID),
					AutoResolvable:  false,
				})
				continue
			}
			aStart := earliestStart(predBlocks)
			if !aStart.Before(bStart) {
				out = append(out, domain.Conflict{
					Type:            domain.ConflictDependencyViolation,
					Severity:        domain.SeverityCritical,
					AffectedTaskIDs: []string{aID, bID},
					Description:     fmt.Sprintf("%s starts on or after its dependent %s", aID, bID),
					AutoResolvable:  false,
				})
			}
		}
	}
	return out
}

// detectInsufficientBuffer flags tasks whose scheduled start sits within
// one working day of their due date (but not after it — that's a
// deadline_miss).
func detectInsufficientBuffer(state *domain.SchedulerState, cfg *config.SchedulerConfig) []domain.Conflict {
	var out []domain.Conflict
	for _, id := range sortedSmartTaskKeys(state.SmartTasks) {
		task := state.SmartTasks[id].Task
		if task.DueDate == nil {
			continue
		}
		blocks := state.BlocksForTask(id)
		if len(blocks) == 0 {
			continue
		}
		start := earliestStart(blocks)
		distance := timeutil.WorkingDaysBetween(start, *task.DueDate, cfg.WorkingDays) - 1
		if distance >= 0 && distance < 1 {
			out = append(out, domain.Conflict{
				Type:            domain.ConflictInsufficientBuffer,
				Severity:        domain.SeverityInfo,
				AffectedTaskIDs: []string{id},
				Description:     fmt.Sprintf("%s has less than one working day of buffer before its due date", id),
				AutoResolvable:  false,
			})
		}
	}
	return out
}

func earliestStart(blocks []*domain.ScheduledBlock) time.Time {
	start := blocks[0].StartTime()
	for _, b := range blocks {
		if b.StartTime().Before(start) {
			start = b.StartTime()
		}
	}
	return start
}

func sortedKeys(m map[string][]*domain.ScheduledBlock) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCapacityKeys(m map[string]*domain.DayCapacity) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSmartTaskKeys(m map[string]*domain.SmartTask) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
