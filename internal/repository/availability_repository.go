package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-horarios/timetable-api/internal/models"
)

// AvailabilityRepository provides read access to professor availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListAll returns every stored availability window.
func (r *AvailabilityRepository) ListAll(ctx context.Context) ([]models.Availability, error) {
	const query = `SELECT id, professor_id, day, start_time, end_time FROM availabilities ORDER BY professor_id ASC, day ASC, start_time ASC`
	var records []models.Availability
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return records, nil
}
