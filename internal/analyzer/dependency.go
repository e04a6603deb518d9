package analyzer

import "github.com/mrivera/daypack/internal/domain"

// DependencyGraph is a per-project view of predecessor edges — explicit
// Task.BlockedBy edges plus an implicit edge from the first task of
// milestone k+1 to every task of milestone k (§4.2).
type DependencyGraph struct {
	predecessors map[string][]string // taskID -> predecessor taskIDs
	successors   map[string][]string // taskID -> dependent taskIDs
}

// BuildDependencyGraph constructs the graph for one project's task set.
// milestones must already be sorted by Order ascending; tasks not
// assigned to any milestone contribute no implicit edges.
func BuildDependencyGraph(tasks []*domain.Task, milestones []*domain.Milestone) *DependencyGraph {
	g := &DependencyGraph{
		predecessors: make(map[string][]string),
		successors:   make(map[string][]string),
	}

	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	addEdge := func(predecessor, successor string) {
		g.predecessors[successor] = append(g.predecessors[successor], predecessor)
		g.successors[predecessor] = append(g.successors[predecessor], successor)
	}

	for _, t := range tasks {
		for _, pred := range t.BlockedBy {
			if _, ok := byID[pred]; ok {
				addEdge(pred, t.ID)
			}
		}
	}

	tasksByMilestone := make(map[string][]*domain.Task)
	for _, t := range tasks {
		if t.MilestoneID != nil {
			tasksByMilestone[*t.MilestoneID] = append(tasksByMilestone[*t.MilestoneID], t)
		}
	}

	for i := 1; i < len(milestones); i++ {
		prev := tasksByMilestone[milestones[i-1].ID]
		cur := tasksByMilestone[milestones[i].ID]
		if len(prev) == 0 || len(cur) == 0 {
			continue
		}
		first := cur[0]
		for _, p := range prev {
			addEdge(p.ID, first.ID)
		}
	}

	return g
}

// Depth returns the longest path length from taskID to a root (a task with
// no predecessors). Cycle-safe: a task reached while already on the
// current DFS path contributes 0 rather than recursing forever.
func (g *DependencyGraph) Depth(taskID string) int {
	visiting := make(map[string]bool)
	memo := make(map[string]int)
	return g.depth(taskID, visiting, memo)
}

func (g *DependencyGraph) depth(taskID string, visiting map[string]bool, memo map[string]int) int {
	if d, ok := memo[taskID]; ok {
		return d
	}
	if visiting[taskID] {
		return 0
	}
	visiting[taskID] = true
	defer delete(visiting, taskID)

	preds := g.predecessors[taskID]
	if len(preds) == 0 {
		memo[taskID] = 0
		return 0
	}
	best := 0
	for _, p := range preds {
		if d := g.depth(p, visiting, memo) + 1; d > best {
			best = d
		}
	}
	memo[taskID] = best
	return best
}

// Blocks returns every task transitively dependent on taskID, via DFS with
// a visited guard.
func (g *DependencyGraph) Blocks(taskID string) []string {
	visited := make(map[string]bool)
	var out []string
	var walk func(string)
	walk = func(id string) {
		for _, succ := range g.successors[id] {
			if visited[succ] {
				continue
			}
			visited[succ] = true
			out = append(out, succ)
			walk(succ)
		}
	}
	walk(taskID)
	return out
}

// Predecessors returns the direct predecessor IDs of taskID.
func (g *DependencyGraph) Predecessors(taskID string) []string {
	return g.predecessors[taskID]
}
