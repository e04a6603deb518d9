package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/domain"
)

const habitColumns = `id, title, frequency, scheduled_time, duration_minutes, weekdays, active`

// SQLiteHabitRepo implements HabitRepo over a SQLite database.
type SQLiteHabitRepo struct {
	db db.DBTX
}

// NewSQLiteHabitRepo creates a new SQLiteHabitRepo.
func NewSQLiteHabitRepo(db db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{db: db}
}

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Title, string(h.Frequency), nullableStringValue(h.ScheduledTime),
		h.DurationMinutes, intSetToString(h.Weekdays), boolToInt(h.Active))
	if err != nil {
		return fmt.Errorf("inserting habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

func (r *SQLiteHabitRepo) ListActive(ctx context.Context) ([]*domain.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE active = 1`)
	if err != nil {
		return nil, fmt.Errorf("listing active habits: %w", err)
	}
	defer rows.Close()
	return scanHabits(rows)
}

func (r *SQLiteHabitRepo) List(ctx context.Context) ([]*domain.Habit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+habitColumns+` FROM habits`)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()
	return scanHabits(rows)
}

func (r *SQLiteHabitRepo) Update(ctx context.Context, h *domain.Habit) error {
	_, err := r.db.ExecContext(ctx, `UPDATE habits SET title=?, frequency=?, scheduled_time=?,
		duration_minutes=?, weekdays=?, active=? WHERE id=?`,
		h.Title, string(h.Frequency), nullableStringValue(h.ScheduledTime),
		h.DurationMinutes, intSetToString(h.Weekdays), boolToInt(h.Active), h.ID)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	return nil
}

func scanHabit(row rowScanner) (*domain.Habit, error) {
	var h domain.Habit
	var scheduledTime sql.NullString
	var weekdays string
	var active int
	if err := row.Scan(&h.ID, &h.Title, (*string)(&h.Frequency), &scheduledTime, &h.DurationMinutes, &weekdays, &active); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}
	h.ScheduledTime = nullableStringPtr(scheduledTime)
	h.Weekdays = stringToIntSet(weekdays)
	h.Active = intToBool(active)
	return &h, nil
}

func scanHabits(rows *sql.Rows) ([]*domain.Habit, error) {
	var out []*domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
