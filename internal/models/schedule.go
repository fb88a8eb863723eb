package models

import "time"

// ScheduleItem is one materialized run of assigned slots for a group.
// Day carries the Spanish weekday name; times use "HH:MM".
type ScheduleItem struct {
	ID            string    `db:"id" json:"id"`
	CycleID       string    `db:"cycle_id" json:"cycle_id"`
	GroupID       string    `db:"group_id" json:"group_id"`
	DegreeProgram string    `db:"degree_program" json:"degree_program"`
	Day           string    `db:"day" json:"day"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ScheduleItemDetail extends ScheduleItem with display names resolved from
// the group's subject, professor and classroom.
type ScheduleItemDetail struct {
	ScheduleItem
	SubjectName   string `db:"subject_name" json:"subject_name"`
	ProfessorName string `db:"professor_name" json:"professor_name"`
	ClassroomName string `db:"classroom_name" json:"classroom_name"`
}
