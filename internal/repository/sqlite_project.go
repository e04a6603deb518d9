package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/domain"
)

const projectColumns = `id, name, deadline, start_date, progress_pct, tags, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo over a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, nullableTimeToString(p.Deadline), p.StartDate.Format(timeLayout),
		p.ProgressPct, tagsToString(p.Tags), now, now)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET name=?, deadline=?, start_date=?,
		progress_pct=?, tags=?, updated_at=? WHERE id=?`,
		p.Name, nullableTimeToString(p.Deadline), p.StartDate.Format(timeLayout),
		p.ProgressPct, tagsToString(p.Tags), nowUTC(), p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var deadline sql.NullString
	var startDate, tags, createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &deadline, &startDate, &p.ProgressPct, &tags, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Deadline = parseNullableTime(deadline)
	if parsed, err := time.Parse(timeLayout, startDate); err == nil {
		p.StartDate = parsed
	}
	p.Tags = stringToTags(tags)
	return &p, nil
}
