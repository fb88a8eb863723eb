package models

// Availability is one weekly window during which a professor can teach.
// Day carries the Spanish weekday name (Lunes..Viernes) and times use
// "HH:MM" or "HH:MM:SS" as stored by the availability capture UI.
type Availability struct {
	ID          string `db:"id" json:"id"`
	ProfessorID string `db:"professor_id" json:"professor_id"`
	Day         string `db:"day" json:"day"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
}
