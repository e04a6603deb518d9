package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/domain"
)

const milestoneColumns = `id, project_id, "order", title, estimated_hours, deadline, progress_pct`

// SQLiteMilestoneRepo implements MilestoneRepo over a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

// NewSQLiteMilestoneRepo creates a new SQLiteMilestoneRepo.
func NewSQLiteMilestoneRepo(db db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: db}
}

func (r *SQLiteMilestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO milestones (`+milestoneColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.Order, m.Title, m.EstimatedHours, nullableTimeToString(m.Deadline), m.ProgressPct)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = ?`, id)
	return scanMilestone(row)
}

func (r *SQLiteMilestoneRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE project_id = ? ORDER BY "order"`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones by project: %w", err)
	}
	defer rows.Close()
	return scanMilestones(rows)
}

func (r *SQLiteMilestoneRepo) List(ctx context.Context) ([]*domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+milestoneColumns+` FROM milestones ORDER BY project_id, "order"`)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()
	return scanMilestones(rows)
}

func (r *SQLiteMilestoneRepo) Update(ctx context.Context, m *domain.Milestone) error {
	_, err := r.db.ExecContext(ctx, `UPDATE milestones SET project_id=?, "order"=?, title=?,
		estimated_hours=?, deadline=?, progress_pct=? WHERE id=?`,
		m.ProjectID, m.Order, m.Title, m.EstimatedHours, nullableTimeToString(m.Deadline), m.ProgressPct, m.ID)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	return nil
}

func scanMilestone(row rowScanner) (*domain.Milestone, error) {
	var m domain.Milestone
	var deadline sql.NullString
	if err := row.Scan(&m.ID, &m.ProjectID, &m.Order, &m.Title, &m.EstimatedHours, &deadline, &m.ProgressPct); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning milestone: %w", err)
	}
	m.Deadline = parseNullableTime(deadline)
	return &m, nil
}

func scanMilestones(rows *sql.Rows) ([]*domain.Milestone, error) {
	var out []*domain.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
