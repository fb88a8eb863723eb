package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-horarios/timetable-api/internal/models"
)

const scheduleDetailColumns = `s.id, s.cycle_id, s.group_id, s.degree_program, s.day, s.start_time, s.end_time, s.created_at,
	sub.name AS subject_name, p.full_name AS professor_name, c.name AS classroom_name`

const scheduleDetailJoins = `FROM general_schedule s
	JOIN groups g ON g.id = s.group_id
	JOIN subjects sub ON sub.id = g.subject_id
	JOIN professors p ON p.id = g.professor_id
	JOIN classrooms c ON c.id = g.classroom_id`

// GeneralScheduleRepository persists the cycle-wide general schedule.
type GeneralScheduleRepository struct {
	db *sqlx.DB
}

// NewGeneralScheduleRepository creates a new general schedule repository.
func NewGeneralScheduleRepository(db *sqlx.DB) *GeneralScheduleRepository {
	return &GeneralScheduleRepository{db: db}
}

// ReplaceForCycle deletes the cycle's previous schedule and inserts the new
// items as a single transaction. On any failure the previous schedule stays
// intact.
func (r *GeneralScheduleRepository) ReplaceForCycle(ctx context.Context, cycleID string, items []models.ScheduleItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM general_schedule WHERE cycle_id = $1`, cycleID); err != nil {
		return fmt.Errorf("delete schedule for cycle: %w", err)
	}

	now := time.Now().UTC()
	for i := range items {
		payload := items[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err = sqlx.NamedExecContext(ctx, tx, `INSERT INTO general_schedule (id, cycle_id, group_id, degree_program, day, start_time, end_time, created_at) VALUES (:id, :cycle_id, :group_id, :degree_program, :day, :start_time, :end_time, :created_at)`, &payload); err != nil {
			return fmt.Errorf("insert schedule item: %w", err)
		}
		items[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedule: %w", err)
	}
	return nil
}

// ListByCycle returns the cycle's schedule with display names, ordered for
// rendering the weekly grid.
func (r *GeneralScheduleRepository) ListByCycle(ctx context.Context, cycleID string) ([]models.ScheduleItemDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.cycle_id = $1 ORDER BY s.day ASC, s.start_time ASC`, scheduleDetailColumns, scheduleDetailJoins)
	var items []models.ScheduleItemDetail
	if err := r.db.SelectContext(ctx, &items, query, cycleID); err != nil {
		return nil, fmt.Errorf("list schedule by cycle: %w", err)
	}
	return items, nil
}

// ListByProfessor returns schedule items taught by one professor.
func (r *GeneralScheduleRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.ScheduleItemDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE g.professor_id = $1 ORDER BY s.day ASC, s.start_time ASC`, scheduleDetailColumns, scheduleDetailJoins)
	var items []models.ScheduleItemDetail
	if err := r.db.SelectContext(ctx, &items, query, professorID); err != nil {
		return nil, fmt.Errorf("list schedule by professor: %w", err)
	}
	return items, nil
}

// ListByClassroom returns schedule items hosted in one classroom.
func (r *GeneralScheduleRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.ScheduleItemDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE g.classroom_id = $1 ORDER BY s.day ASC, s.start_time ASC`, scheduleDetailColumns, scheduleDetailJoins)
	var items []models.ScheduleItemDetail
	if err := r.db.SelectContext(ctx, &items, query, classroomID); err != nil {
		return nil, fmt.Errorf("list schedule by classroom: %w", err)
	}
	return items, nil
}
