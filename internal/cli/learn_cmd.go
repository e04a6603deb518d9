package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/learning"
	"github.com/spf13/cobra"
)

func newLearnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Inspect and update estimate-calibration history (C8)",
	}
	cmd.AddCommand(newLearnRecordCmd(app), newLearnShowCmd(app))
	return cmd
}

func newLearnRecordCmd(app *App) *cobra.Command {
	var taskID string
	var actualMinutes int

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a completed task's actual duration and recalibrate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if taskID == "" || actualMinutes <= 0 {
				return fmt.Errorf("--task and --actual-minutes are both required")
			}
			ctx := context.Background()

			task, err := app.Tasks.GetByID(ctx, taskID)
			if err != nil {
				return fmt.Errorf("loading task: %w", err)
			}

			data, err := app.Learning.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading learning data: %w", err)
			}

			data = learning.RecordCompletion(data, task, actualMinutes, time.Now().UTC())

			if err := app.Learning.Save(ctx, data); err != nil {
				return fmt.Errorf("saving learning data: %w", err)
			}

			task.ActualMinutes = &actualMinutes
			task.Status = domain.TaskCompleted
			if err := app.Tasks.Update(ctx, task); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}

			fmt.Printf("Recorded %q: estimated %dmin, actual %dmin. Global multiplier now %.2f\n",
				task.Title, task.EffectiveEstimateMinutes(), actualMinutes, data.GlobalMultiplier)
			return nil
		},
	}
	cmd.Flags().StringVar(&taskID, "task", "", "Completed task ID")
	cmd.Flags().IntVar(&actualMinutes, "actual-minutes", 0, "Actual minutes spent")
	return cmd
}

func newLearnShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print current calibration state and estimated peak-productivity hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			data, err := app.Learning.Load(ctx)
			if err != nil {
				return fmt.Errorf("loading learning data: %w", err)
			}
			fmt.Printf("%d completion record(s), global multiplier %.2f\n", len(data.CompletionRecords), data.GlobalMultiplier)
			fmt.Printf("peak hours: %v\n", data.PeakHours)
			for tag, m := range data.CategoryMultipliers {
				fmt.Printf("  tag %-20s multiplier %.2f\n", tag, m)
			}
			for projectID, m := range data.ProjectMultipliers {
				fmt.Printf("  project %-20s multiplier %.2f\n", projectID, m)
			}
			return nil
		},
	}
}
