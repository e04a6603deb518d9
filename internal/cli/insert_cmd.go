package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/repository"
	"github.com/mrivera/daypack/internal/scheduler"
	"github.com/spf13/cobra"
)

func newInsertCmd(app *App) *cobra.Command {
	var title, dueDate, targetDate, targetTime string
	var minutes int
	var mustComplete, preview bool
	var configPath string
	var windowDays int

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Emergency-insert an urgent task, rippling same-day blocks forward (C6)",
		Long: `insert schedules a new urgent task against today's (or --date's)
capacity, cascading any movable, non-locked block it collides with later
in the day (§4.6). With --must-complete it forces the insertion even when
a displacement would be significant; otherwise a significant ripple is
rejected. --preview plans but does not commit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && isInteractive() {
				if err := runInsertWizard(&title, &dueDate, &minutes); err != nil {
					return err
				}
			}
			if title == "" {
				return fmt.Errorf("--title is required (or run in an interactive terminal)")
			}
			if minutes <= 0 {
				minutes = 30
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

			task := &domain.Task{
				ID:               uuid.NewString(),
				Title:            title,
				Status:           domain.TaskPending,
				Priority:         domain.PriorityUrgent,
				EstimatedMinutes: minutes,
			}
			if dueDate != "" {
				d, err := time.Parse("2006-01-02", dueDate)
				if err != nil {
					return fmt.Errorf("parsing --due: %w", err)
				}
				task.DueDate = &d
			}

			req := domain.EmergencyInsertRequest{
				Task:         task,
				TargetTime:   targetTime,
				MustComplete: mustComplete,
			}
			if targetDate != "" {
				d, err := time.Parse("2006-01-02", targetDate)
				if err != nil {
					return fmt.Errorf("parsing --date: %w", err)
				}
				req.TargetDate = d
			}

			now := time.Now().UTC()

			if preview {
				p, err := scheduler.PreviewEmergencyInsertion(state, &cfg, req, now)
				if err != nil {
					return err
				}
				printInsertionPreview(p)
				return nil
			}

			result, err := scheduler.ExecuteEmergencyInsertion(state, &cfg, req, now, app.Observer)
			if err != nil {
				return err
			}
			if !result.Success {
				printRippleConflicts(result.Conflicts)
				return fmt.Errorf("insertion rejected")
			}

			persist := func(ctx context.Context, tasks repository.TaskRepo) error {
				if err := tasks.Create(ctx, task); err != nil {
					return fmt.Errorf("persisting new task: %w", err)
				}
				for _, b := range state.BlocksForTask(task.ID) {
					start, end := b.StartTime(), b.EndTime()
					if err := tasks.UpdateSchedule(ctx, task.ID, &start, &end); err != nil {
						return fmt.Errorf("persisting schedule: %w", err)
					}
				}
				return nil
			}
			if app.UoW == nil {
				if err := persist(ctx, app.Tasks); err != nil {
					return err
				}
			} else if err := app.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				return persist(ctx, repository.NewSQLiteTaskRepo(tx))
			}); err != nil {
				return err
			}
			for _, r := range result.RippleEffects {
				fmt.Printf("  ripple: %s now %s-%s (%s)\n", r.TaskID, minuteToClock(r.NewStartMinute), minuteToClock(r.NewEndMinute), r.Severity)
			}
			fmt.Printf("Inserted %q, displacing %d block(s)\n", title, len(result.RippleEffects))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&minutes, "minutes", 30, "Estimated duration in minutes")
	cmd.Flags().StringVar(&targetDate, "date", "", "Target date (YYYY-MM-DD), default per §4.6's time-of-day rule")
	cmd.Flags().StringVar(&targetTime, "time", "", "Target time (HH:MM), default the configured work start")
	cmd.Flags().BoolVar(&mustComplete, "must-complete", false, "Force insertion even with a significant ripple")
	cmd.Flags().BoolVar(&preview, "preview", false, "Plan the insertion without committing it")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML SchedulerConfig file")
	cmd.Flags().IntVar(&windowDays, "days", 14, "Window size in days when --config isn't given")

	return cmd
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func runInsertWizard(title, due *string, minutes *int) error {
	var minutesStr string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(title).Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
			huh.NewInput().Title("Due Date (YYYY-MM-DD, blank for none)").Value(due),
			huh.NewInput().Title("Estimated Minutes").Placeholder("30").Value(&minutesStr),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("insert wizard: %w", err)
	}
	if minutesStr != "" {
		fmt.Sscanf(minutesStr, "%d", minutes)
	}
	return nil
}

func printInsertionPreview(p *domain.InsertionPreview) {
	fmt.Println(p.Summary)
	fmt.Printf("can insert: %v, at %s %s-%s\n", p.CanInsert, p.ProposedDate,
		minuteToClock(p.ProposedStartMinute), minuteToClock(p.ProposedEndMinute))
	for _, r := range p.RippleEffects {
		fmt.Printf("  ripple: %s %s-%s -> %s-%s (%s)\n", r.TaskID,
			minuteToClock(r.OldStartMinute), minuteToClock(r.OldEndMinute),
			minuteToClock(r.NewStartMinute), minuteToClock(r.NewEndMinute), r.Severity)
	}
	for _, w := range p.Warnings {
		fmt.Println("  warning:", w)
	}
}

func printRippleConflicts(conflicts []domain.Conflict) {
	for _, c := range conflicts {
		fmt.Printf("  [%s/%s] %s\n", c.Severity, c.Type, c.Description)
	}
}
