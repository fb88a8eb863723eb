package models

import "time"

// Subject represents a course with a weekly class-hour requirement.
type Subject struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	WeeklyClassHours float64   `db:"weekly_class_hours" json:"weekly_class_hours"`
	DegreeProgram    *string   `db:"degree_program" json:"degree_program,omitempty"`
	Semester         int       `db:"semester" json:"semester"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
