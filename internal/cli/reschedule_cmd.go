package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/scheduler"
	"github.com/spf13/cobra"
)

func newRescheduleCmd(app *App) *cobra.Command {
	var blockID, date, timeOfDay string
	var preview bool
	var configPath string
	var windowDays int

	cmd := &cobra.Command{
		Use:   "reschedule",
		Short: "Move one scheduled block to a new date/time (C7)",
		Long: `reschedule drags a single block to a new slot, rejecting the move
(as a Conflict, never a mutation) if the block is locked, the target
falls outside the populated capacity window, the target slot is too
small, or the move would invert a dependency ordering (§4.7).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if blockID == "" || date == "" || timeOfDay == "" {
				return fmt.Errorf("--block, --date, and --time are all required")
			}
			newDate, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("parsing --date: %w", err)
			}
			startMinute, err := parseClock(timeOfDay)
			if err != nil {
				return fmt.Errorf("parsing --time: %w", err)
			}

			ctx := context.Background()
			cfg, err := resolveConfig(configPath, windowDays)
			if err != nil {
				return err
			}
			tasks, milestones, projects, habits, err := loadAll(ctx, app)
			if err != nil {
				return err
			}

			state, _, err := scheduler.ScheduleWithState(tasks, milestones, projects, habits, &cfg, app.Observer)
			if err != nil {
				return err
			}

			now := time.Now().UTC()

			if preview {
				result := scheduler.PreviewReschedule(state, &cfg, blockID, newDate, startMinute, now)
				printRescheduleResult(result)
				return nil
			}

			result := scheduler.RescheduleBlock(state, &cfg, blockID, newDate, startMinute, now, app.Observer)
			if !result.Success {
				printRescheduleResult(result)
				return fmt.Errorf("reschedule rejected")
			}

			for _, b := range state.Blocks {
				if b.ID != blockID {
					continue
				}
				start, end := b.StartTime(), b.EndTime()
				if err := app.Tasks.UpdateSchedule(ctx, b.TaskID, &start, &end); err != nil {
					return fmt.Errorf("persisting schedule: %w", err)
				}
				break
			}
			fmt.Printf("Moved %s to %s %s\n", blockID, date, timeOfDay)
			return nil
		},
	}

	cmd.Flags().StringVar(&blockID, "block", "", "Block ID to move")
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "New start time (HH:MM)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Plan the move without committing it")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML SchedulerConfig file")
	cmd.Flags().IntVar(&windowDays, "days", 14, "Window size in days when --config isn't given")

	return cmd
}

func parseClock(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

func printRescheduleResult(result *domain.RescheduleResult) {
	fmt.Printf("success: %v\n", result.Success)
	for _, c := range result.Conflicts {
		fmt.Printf("  [%s/%s] %s\n", c.Severity, c.Type, c.Description)
	}
}
