package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mrivera/daypack/internal/db"
	"github.com/mrivera/daypack/internal/learning"
)

// SQLiteLearningRepo persists the learning module's single long-lived blob
// (§6, §4.8) as one JSON row, the same single-row convention the teacher
// uses for its own per-user settings table.
type SQLiteLearningRepo struct {
	db db.DBTX
}

// NewSQLiteLearningRepo creates a new SQLiteLearningRepo.
func NewSQLiteLearningRepo(db db.DBTX) *SQLiteLearningRepo {
	return &SQLiteLearningRepo{db: db}
}

func (r *SQLiteLearningRepo) Load(ctx context.Context) (learning.Data, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM learning_data WHERE id = 'default'`).Scan(&payload)
	if err == sql.ErrNoRows {
		return learning.NewData(), nil
	}
	if err != nil {
		return learning.Data{}, fmt.Errorf("loading learning data: %w", err)
	}
	var d learning.Data
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return learning.Data{}, fmt.Errorf("decoding learning data: %w", err)
	}
	return d, nil
}

func (r *SQLiteLearningRepo) Save(ctx context.Context, d learning.Data) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding learning data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO learning_data (id, payload, updated_at)
		VALUES ('default', ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), nowUTC())
	if err != nil {
		return fmt.Errorf("saving learning data: %w", err)
	}
	return nil
}
