package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTask(title string) *domain.Task {
	return &domain.Task{
		ID:               uuid.NewString(),
		Title:            title,
		Status:           domain.TaskPending,
		Priority:         domain.PriorityMedium,
		EstimatedMinutes: 45,
		Tags:             map[string]bool{"writing": true},
	}
}

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := newTestTask("Draft report")
	due := time.Now().UTC().AddDate(0, 0, 5)
	task.DueDate = &due
	require.NoError(t, repo.Create(ctx, task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, fetched.Title)
	assert.Equal(t, task.Priority, fetched.Priority)
	assert.Equal(t, 45, fetched.EstimatedMinutes)
	assert.True(t, fetched.Tags["writing"])
	require.NotNil(t, fetched.DueDate)
	assert.Equal(t, due.Format("2006-01-02"), fetched.DueDate.Format("2006-01-02"))
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_DependenciesRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	a := newTestTask("A")
	require.NoError(t, repo.Create(ctx, a))

	b := newTestTask("B")
	b.BlockedBy = []string{a.ID}
	require.NoError(t, repo.Create(ctx, b))

	fetchedB, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, fetchedB.BlockedBy)

	fetchedA, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, fetchedA.Blocking)
}

func TestTaskRepo_List_FiltersByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	pending := newTestTask("Pending task")
	require.NoError(t, repo.Create(ctx, pending))

	done := newTestTask("Done task")
	done.Status = domain.TaskCompleted
	require.NoError(t, repo.Create(ctx, done))

	status := domain.TaskPending
	tasks, err := repo.List(ctx, TaskFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, pending.ID, tasks[0].ID)
}

func TestTaskRepo_UpdateSchedule(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := newTestTask("Schedule me")
	require.NoError(t, repo.Create(ctx, task))

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	require.NoError(t, repo.UpdateSchedule(ctx, task.ID, &start, &end))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.ScheduledStart)
	require.NotNil(t, fetched.ScheduledEnd)
	assert.True(t, fetched.ScheduledStart.Equal(start))
	assert.True(t, fetched.ScheduledEnd.Equal(end))
}

func TestTaskRepo_UpdateSchedule_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)

	err := repo.UpdateSchedule(context.Background(), "missing", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := newTestTask("Throwaway")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
