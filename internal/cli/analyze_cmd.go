package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mrivera/daypack/internal/analyzer"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Derive SmartTask fields (criticality, flexibility, dates) for every open task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			tasks, milestones, projects, _, err := loadAll(ctx, app)
			if err != nil {
				return err
			}
			smartTasks := analyzeAllTasks(tasks, milestones, projects)
			printSmartTasks(smartTasks)
			return nil
		},
	}
	return cmd
}

// analyzeAllTasks runs C2 across every schedulable task, grouping by
// project so each project's DependencyGraph only sees its own tasks.
func analyzeAllTasks(tasks []*domain.Task, milestones []*domain.Milestone, projects []*domain.Project) []*domain.SmartTask {
	projectsByID := make(map[string]*domain.Project, len(projects))
	for _, p := range projects {
		projectsByID[p.ID] = p
	}
	milestonesByID := make(map[string]*domain.Milestone, len(milestones))
	for _, m := range milestones {
		milestonesByID[m.ID] = m
	}

	tasksByProject := make(map[string][]*domain.Task)
	for _, t := range tasks {
		key := ""
		if t.ProjectID != nil {
			key = *t.ProjectID
		}
		tasksByProject[key] = append(tasksByProject[key], t)
	}
	milestonesByProject := make(map[string][]*domain.Milestone)
	for _, m := range milestones {
		milestonesByProject[m.ProjectID] = append(milestonesByProject[m.ProjectID], m)
	}
	for key := range milestonesByProject {
		ms := milestonesByProject[key]
		sort.Slice(ms, func(i, j int) bool { return ms[i].Order < ms[j].Order })
	}

	workingDays := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	today := time.Now().UTC()

	var out []*domain.SmartTask
	for key, projectTasks := range tasksByProject {
		graph := analyzer.BuildDependencyGraph(projectTasks, milestonesByProject[key])
		for _, t := range projectTasks {
			if !t.IsSchedulable() {
				continue
			}
			var project *domain.Project
			if t.ProjectID != nil {
				project = projectsByID[*t.ProjectID]
			}
			var milestone *domain.Milestone
			if t.MilestoneID != nil {
				milestone = milestonesByID[*t.MilestoneID]
			}
			st := analyzer.AnalyzeTask(analyzer.Input{
				Task:        t,
				Project:     project,
				Milestone:   milestone,
				Graph:       graph,
				WorkingDays: workingDays,
				Today:       today,
			})
			out = append(out, st)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Criticality > out[j].Criticality })
	return out
}

func printSmartTasks(smartTasks []*domain.SmartTask) {
	for _, st := range smartTasks {
		fmt.Printf("%-36s crit=%-3d flex=%-12s split=%-5v est=%dmin\n",
			st.Task.Title, st.Criticality, st.Flexibility, st.CanBeSplit, st.EffectiveEstimateMinutes)
	}
}
