package repository

import (
	"context"
	"time"

	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/learning"
)

// TaskFilter narrows ListTasks (§6's listTasks(filter)). A zero-value
// filter returns every task.
type TaskFilter struct {
	ProjectID   *string
	MilestoneID *string
	Status      *domain.TaskStatus
}

// TaskRepo is the engine's Task collaborator (§6): CRUD plus the
// scheduling-output write-back channel.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	// UpdateSchedule is the §6 updateTaskSchedule write-back channel —
	// the only mutation the scheduling engine itself ever implies.
	UpdateSchedule(ctx context.Context, taskID string, start, end *time.Time) error
}

// MilestoneRepo is the engine's Milestone collaborator.
type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.Milestone) error
	GetByID(ctx context.Context, id string) (*domain.Milestone, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error)
	List(ctx context.Context) ([]*domain.Milestone, error)
	Update(ctx context.Context, m *domain.Milestone) error
	Delete(ctx context.Context, id string) error
}

// ProjectRepo is the engine's Project collaborator.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// HabitRepo is the engine's Habit collaborator.
type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	ListActive(ctx context.Context) ([]*domain.Habit, error)
	List(ctx context.Context) ([]*domain.Habit, error)
	Update(ctx context.Context, h *domain.Habit) error
	Delete(ctx context.Context, id string) error
}

// LearningRepo persists the single learning.Data blob described in §6 —
// "a single JSON-serialisable record keyed to the user".
type LearningRepo interface {
	Load(ctx context.Context) (learning.Data, error)
	Save(ctx context.Context, d learning.Data) error
}
