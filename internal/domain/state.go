package domain

// SchedulerState is the working state of one scheduling run: all analyzed
// tasks, the capacity map, the flat block list, and accumulated
// conflicts/warnings/recommendations.
type SchedulerState struct {
	SmartTasks map[string]*SmartTask // by task ID

	Unscheduled map[string]bool // task IDs still unplaced
	Scheduled   map[string]bool // task IDs with at least one block placed

	// CapacityByDate is keyed by timeutil.DateKey(date).
	CapacityByDate map[string]*DayCapacity

	Blocks []ScheduledBlock

	Conflicts       []Conflict
	Warnings        []string
	Recommendations []string

	UnscheduledReasons map[string]string // task ID -> human reason
}

// NewSchedulerState returns an empty, initialized state.
func NewSchedulerState() *SchedulerState {
	return &SchedulerState{
		SmartTasks:         make(map[string]*SmartTask),
		Unscheduled:        make(map[string]bool),
		Scheduled:          make(map[string]bool),
		CapacityByDate:     make(map[string]*DayCapacity),
		UnscheduledReasons: make(map[string]string),
	}
}

// BlocksForTask returns every block placed for the given task ID, in the
// order they were appended.
func (s *SchedulerState) BlocksForTask(taskID string) []*ScheduledBlock {
	var out []*ScheduledBlock
	for i := range s.Blocks {
		if s.Blocks[i].TaskID == taskID {
			out = append(out, &s.Blocks[i])
		}
	}
	return out
}

// MarkScheduled moves a task from Unscheduled to Scheduled.
func (s *SchedulerState) MarkScheduled(taskID string) {
	delete(s.Unscheduled, taskID)
	s.Scheduled[taskID] = true
}

// MarkUnscheduled records a task as unplaced with a reason.
func (s *SchedulerState) MarkUnscheduled(taskID, reason string) {
	s.Unscheduled[taskID] = true
	s.UnscheduledReasons[taskID] = reason
}
