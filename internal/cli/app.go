// Package cli wires the scheduler engine (internal/scheduler, analyzer,
// capacity, conflict, learning) to a cobra command tree and an optional
// bubbletea timeline view, backed by internal/repository for persistence.
package cli

import (
	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/observability"
	"github.com/mrivera/daypack/internal/repository"
)

// App holds the repository handles every subcommand operates against. It
// plays the same role as the teacher's App struct in internal/cli/root.go,
// generalized from service interfaces to this spec's repository
// collaborators (§6) since the scheduler has no service layer of its own.
type App struct {
	Tasks      repository.TaskRepo
	Milestones repository.MilestoneRepo
	Projects   repository.ProjectRepo
	Habits     repository.HabitRepo
	Learning   repository.LearningRepo

	// UoW scopes a multi-write commit (schedule --commit, and the new task
	// plus its block written by an emergency insertion) inside one
	// transaction when the App was built against a real database. Blocks
	// moved by an insertion's ripple are not written back, and reschedule
	// writes its single update through Tasks directly. Nil in tests that stub the
	// repository interfaces directly, in which case commits fall back to
	// per-call autocommit writes.
	UoW db.UnitOfWork

	// Observer receives one event per engine phase (pass 1..4, conflict
	// detection, insert, reschedule), the same role the teacher's
	// UseCaseObserver plays around its service methods. Defaults to a
	// NoopObserver when the caller passes nil.
	Observer observability.Observer
}

// NewApp constructs an App from concrete repository handles, an optional
// UnitOfWork for transaction-scoped commits, and an optional phase observer.
// uow and observer may both be nil.
func NewApp(tasks repository.TaskRepo, milestones repository.MilestoneRepo, projects repository.ProjectRepo, habits repository.HabitRepo, learningRepo repository.LearningRepo, uow db.UnitOfWork, observer observability.Observer) *App {
	return &App{
		Tasks:      tasks,
		Milestones: milestones,
		Projects:   projects,
		Habits:     habits,
		Learning:   learningRepo,
		UoW:        uow,
		Observer:   observability.OrNoop([]observability.Observer{observer}),
	}
}
