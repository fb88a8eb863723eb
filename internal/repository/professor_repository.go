package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-horarios/timetable-api/internal/models"
)

// ProfessorRepository provides read access to professor records.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository creates a new professor repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// ListActive returns professors eligible for group generation.
func (r *ProfessorRepository) ListActive(ctx context.Context) ([]models.Professor, error) {
	const query = `SELECT id, full_name, email, class_names, active, created_at, updated_at FROM professors WHERE active = true ORDER BY full_name ASC`
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list active professors: %w", err)
	}
	return professors, nil
}

