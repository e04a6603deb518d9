package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/config"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/repository"
)

// loadAll pulls the four record kinds the engine reads per run (§6) from
// the App's repositories, as one immutable snapshot per the concurrency
// model's "inputs to a run are immutable snapshots" contract.
func loadAll(ctx context.Context, app *App) ([]*domain.Task, []*domain.Milestone, []*domain.Project, []*domain.Habit, error) {
	tasks, err := app.Tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("listing tasks: %w", err)
	}
	milestones, err := app.Milestones.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("listing milestones: %w", err)
	}
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("listing projects: %w", err)
	}
	habits, err := app.Habits.ListActive(ctx)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("listing active habits: %w", err)
	}
	return tasks, milestones, projects, habits, nil
}

// resolveConfig loads a YAML config file when configPath is non-empty,
// otherwise builds NewDefaultConfig over [today, today+windowDays).
func resolveConfig(configPath string, windowDays int) (config.SchedulerConfig, error) {
	if configPath != "" {
		return config.LoadConfigFile(configPath)
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, windowDays)
	return config.NewDefaultConfig(start, end), nil
}
