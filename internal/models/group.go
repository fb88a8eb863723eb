package models

import "time"

// Group is one subject taught by one professor to one classroom cohort
// within a cycle.
type Group struct {
	ID          string    `db:"id" json:"id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	ProfessorID string    `db:"professor_id" json:"professor_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	CycleID     string    `db:"cycle_id" json:"cycle_id"`
	Semester    int       `db:"semester" json:"semester"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
