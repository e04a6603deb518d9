package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitRepo_CreateAndListActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(db)
	ctx := context.Background()

	scheduledTime := "07:00"
	active := &domain.Habit{
		ID:              uuid.NewString(),
		Title:           "Morning run",
		Frequency:       domain.HabitDaily,
		ScheduledTime:   &scheduledTime,
		DurationMinutes: 30,
		Active:          true,
	}
	require.NoError(t, repo.Create(ctx, active))

	archived := &domain.Habit{
		ID:        uuid.NewString(),
		Title:     "Old habit",
		Frequency: domain.HabitWeekly,
		Weekdays:  map[int]bool{1: true},
		Active:    false,
	}
	require.NoError(t, repo.Create(ctx, archived))

	got, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Morning run", got[0].Title)
	require.NotNil(t, got[0].ScheduledTime)
	assert.Equal(t, "07:00", *got[0].ScheduledTime)
}

func TestHabitRepo_WeekdaysRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(db)
	ctx := context.Background()

	scheduledTime := "18:00"
	h := &domain.Habit{
		ID:              uuid.NewString(),
		Title:           "Gym",
		Frequency:       domain.HabitCustom,
		ScheduledTime:   &scheduledTime,
		DurationMinutes: 60,
		Weekdays:        map[int]bool{1: true, 3: true, 5: true},
		Active:          true,
	}
	require.NoError(t, repo.Create(ctx, h))

	fetched, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Weekdays[1])
	assert.True(t, fetched.Weekdays[3])
	assert.True(t, fetched.Weekdays[5])
	assert.False(t, fetched.Weekdays[2])
	assert.True(t, fetched.AppliesTo(1))
	assert.False(t, fetched.AppliesTo(2))
}
