package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/campus-horarios/timetable-api/internal/models"
)

// CycleRepository provides read access to academic cycles.
type CycleRepository struct {
	db *sqlx.DB
}

// NewCycleRepository creates a new cycle repository.
func NewCycleRepository(db *sqlx.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

// FindByID returns a cycle by id.
func (r *CycleRepository) FindByID(ctx context.Context, id string) (*models.Cycle, error) {
	const query = `SELECT id, name, start_date, end_date, created_at FROM cycles WHERE id = $1`
	var cycle models.Cycle
	if err := r.db.GetContext(ctx, &cycle, query, id); err != nil {
		return nil, err
	}
	return &cycle, nil
}
