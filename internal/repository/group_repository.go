package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-horarios/timetable-api/internal/models"
)

// GroupRepository provides persistence for scheduled groups.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// ListByCycle returns the groups of one cycle in insertion order. Allocation
// follows this order, so it must be stable across calls.
func (r *GroupRepository) ListByCycle(ctx context.Context, cycleID string) ([]models.Group, error) {
	const query = `SELECT id, subject_id, professor_id, classroom_id, cycle_id, semester, created_at FROM groups WHERE cycle_id = $1 ORDER BY created_at ASC, id ASC`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, cycleID); err != nil {
		return nil, fmt.Errorf("list groups by cycle: %w", err)
	}
	return groups, nil
}

// ReplaceForCycle swaps the cycle's groups for the provided set inside one
// transaction.
func (r *GroupRepository) ReplaceForCycle(ctx context.Context, cycleID string, groups []models.Group) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace groups: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM groups WHERE cycle_id = $1`, cycleID); err != nil {
		return fmt.Errorf("delete groups for cycle: %w", err)
	}

	if err = r.bulkInsertGroups(ctx, tx, groups); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace groups: %w", err)
	}
	return nil
}

func (r *GroupRepository) bulkInsertGroups(ctx context.Context, exec sqlx.ExtContext, groups []models.Group) error {
	now := time.Now().UTC()
	for i := range groups {
		payload := groups[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO groups (id, subject_id, professor_id, classroom_id, cycle_id, semester, created_at) VALUES (:id, :subject_id, :professor_id, :classroom_id, :cycle_id, :semester, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert group: %w", err)
		}
		groups[i] = payload
	}
	return nil
}
