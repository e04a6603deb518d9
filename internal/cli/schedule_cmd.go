package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/repository"
	"github.com/mrivera/daypack/internal/scheduler"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	var configPath string
	var windowDays int
	var commit bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the multi-pass packer over every open task",
		Long: `schedule loads tasks, milestones, projects, and habits, runs the
four-pass packer (§4.5), and prints the resulting previews, conflicts, and
warnings. Pass --commit to write the chosen placements back to storage;
without it, the run is a preview only (§7's "core never partially
mutates external state" contract).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := resolveConfig(configPath, windowDays)
			if err != nil {
				return err
			}
			tasks, milestones, projects, habits, err := loadAll(ctx, app)
			if err != nil {
				return err
			}

			result, err := scheduler.Schedule(tasks, milestones, projects, habits, &cfg, app.Observer)
			if err != nil {
				return err
			}

			printSchedulingResult(result)

			if commit {
				if err := commitSchedule(ctx, app, result); err != nil {
					return fmt.Errorf("committing schedule: %w", err)
				}
				fmt.Println("\nCommitted scheduled times to storage.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML SchedulerConfig file")
	cmd.Flags().IntVar(&windowDays, "days", 14, "Window size in days when --config isn't given")
	cmd.Flags().BoolVar(&commit, "commit", false, "Write placements back via updateTaskSchedule")

	return cmd
}

func printSchedulingResult(result *domain.SchedulingResult) {
	fmt.Printf("Scheduled %d task(s), %d unscheduled\n", result.ScheduledCount, result.UnscheduledCount)

	sort.Slice(result.Previews, func(i, j int) bool { return result.Previews[i].Date.Before(result.Previews[j].Date) })
	for _, p := range result.Previews {
		if len(p.Slots) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", p.Date.Format("2006-01-02 (Mon)"))
		for _, block := range p.Slots {
			fmt.Printf("  %s-%s  %s  (%s)\n",
				minuteToClock(block.StartMinute), minuteToClock(block.EndMinute),
				block.TaskID, humanize.Comma(int64(block.DurationMinutes())))
		}
	}

	if len(result.Conflicts) > 0 {
		fmt.Println("\nConflicts:")
		for _, c := range result.Conflicts {
			fmt.Printf("  [%s/%s] %s\n", c.Severity, c.Type, c.Description)
		}
	}
	if len(result.UnscheduledTasks) > 0 {
		fmt.Println("\nUnscheduled:")
		for _, id := range result.UnscheduledTasks {
			fmt.Printf("  %s: %s\n", id, result.UnscheduledReasons[id])
		}
	}
	fmt.Printf("\nUtilization: %.1f%% over %d working day(s), %d overloaded\n",
		result.CapacitySummary.Utilization, result.CapacitySummary.WorkingDays, result.CapacitySummary.OverloadedDays)
}

func minuteToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// commitSchedule writes each scheduled task's overall start/end back via
// UpdateTaskSchedule (§6) — the span from its earliest block's start to
// its latest block's end, which for an unsplit task is just that one
// block.
func commitSchedule(ctx context.Context, app *App, result *domain.SchedulingResult) error {
	spans := make(map[string]struct {
		start, end domain.ScheduledBlock
	})
	for _, p := range result.Previews {
		for _, block := range p.Slots {
			cur, ok := spans[block.TaskID]
			if !ok {
				spans[block.TaskID] = struct{ start, end domain.ScheduledBlock }{block, block}
				continue
			}
			if block.StartTime().Before(cur.start.StartTime()) {
				cur.start = block
			}
			if block.EndTime().After(cur.end.EndTime()) {
				cur.end = block
			}
			spans[block.TaskID] = cur
		}
	}

	writeSpans := func(ctx context.Context, tasks repository.TaskRepo) error {
		for taskID, span := range spans {
			start := span.start.StartTime()
			end := span.end.EndTime()
			if err := tasks.UpdateSchedule(ctx, taskID, &start, &end); err != nil {
				return err
			}
		}
		return nil
	}

	if app.UoW == nil {
		return writeSpans(ctx, app.Tasks)
	}
	return app.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return writeSpans(ctx, repository.NewSQLiteTaskRepo(tx))
	})
}
