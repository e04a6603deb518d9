package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/domain"
)

const taskColumns = `id, title, status, priority, estimated_minutes, actual_minutes,
	due_date, scheduled_start, scheduled_end, project_id, milestone_id, tags,
	created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo over a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	now := nowUTC()
	t.CreatedAt, t.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, string(t.Status), string(t.Priority),
		t.EstimatedMinutes, nullableIntToValue(t.ActualMinutes),
		nullableTimeToString(t.DueDate), nullableTimeToString(t.ScheduledStart), nullableTimeToString(t.ScheduledEnd),
		nullableStringValue(t.ProjectID), nullableStringValue(t.MilestoneID), tagsToString(t.Tags),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	if err := r.replaceDependencies(ctx, t.ID, t.BlockedBy); err != nil {
		return err
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	if err := r.attachDependencies(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []interface{}
	if filter.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *filter.ProjectID)
	}
	if filter.MilestoneID != nil {
		query += ` AND milestone_id = ?`
		args = append(args, *filter.MilestoneID)
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	for _, t := range tasks {
		if err := r.attachDependencies(ctx, t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET title=?, status=?, priority=?,
		estimated_minutes=?, actual_minutes=?, due_date=?, scheduled_start=?, scheduled_end=?,
		project_id=?, milestone_id=?, tags=?, updated_at=? WHERE id=?`,
		t.Title, string(t.Status), string(t.Priority),
		t.EstimatedMinutes, nullableIntToValue(t.ActualMinutes),
		nullableTimeToString(t.DueDate), nullableTimeToString(t.ScheduledStart), nullableTimeToString(t.ScheduledEnd),
		nullableStringValue(t.ProjectID), nullableStringValue(t.MilestoneID), tagsToString(t.Tags),
		t.UpdatedAt.Format(timeLayout), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return r.replaceDependencies(ctx, t.ID, t.BlockedBy)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// UpdateSchedule is the §6 write-back channel: the engine never writes
// anything else back to persistence.
func (r *SQLiteTaskRepo) UpdateSchedule(ctx context.Context, taskID string, start, end *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET scheduled_start=?, scheduled_end=?, updated_at=? WHERE id=?`,
		nullableTimeToString(start), nullableTimeToString(end), nowUTC(), taskID)
	if err != nil {
		return fmt.Errorf("writing back scheduled times: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking scheduled write-back: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteTaskRepo) replaceDependencies(ctx context.Context, taskID string, blockedBy []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_dependencies WHERE blocked_task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clearing dependencies: %w", err)
	}
	for _, predID := range blockedBy {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_dependencies (blocked_task_id, blocking_task_id) VALUES (?, ?)`,
			taskID, predID); err != nil {
			return fmt.Errorf("inserting dependency: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) attachDependencies(ctx context.Context, t *domain.Task) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT blocking_task_id FROM task_dependencies WHERE blocked_task_id = ?`, t.ID)
	if err != nil {
		return fmt.Errorf("loading blockedBy: %w", err)
	}
	var blockedBy []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		blockedBy = append(blockedBy, id)
	}
	rows.Close()
	t.BlockedBy = blockedBy

	rows, err = r.db.QueryContext(ctx,
		`SELECT blocked_task_id FROM task_dependencies WHERE blocking_task_id = ?`, t.ID)
	if err != nil {
		return fmt.Errorf("loading blocking: %w", err)
	}
	var blocking []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		blocking = append(blocking, id)
	}
	rows.Close()
	t.Blocking = blocking
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	return scanTaskRow(row)
}

func scanTaskRow(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, priority, tags string
	var actualMinutes sql.NullInt64
	var dueDate, schedStart, schedEnd sql.NullString
	var projectID, milestoneID sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&t.ID, &t.Title, &status, &priority, &t.EstimatedMinutes, &actualMinutes,
		&dueDate, &schedStart, &schedEnd, &projectID, &milestoneID, &tags, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.ActualMinutes = nullableInt(actualMinutes)
	t.DueDate = parseNullableTime(dueDate)
	t.ScheduledStart = parseNullableTime(schedStart)
	t.ScheduledEnd = parseNullableTime(schedEnd)
	t.ProjectID = nullableStringPtr(projectID)
	t.MilestoneID = nullableStringPtr(milestoneID)
	t.Tags = stringToTags(tags)

	if parsed, err := time.Parse(timeLayout, createdAt); err == nil {
		t.CreatedAt = parsed
	}
	if parsed, err := time.Parse(timeLayout, updatedAt); err == nil {
		t.UpdatedAt = parsed
	}
	return &t, nil
}

func nullableStringValue(s *string) interface{} {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}
