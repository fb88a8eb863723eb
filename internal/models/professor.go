package models

import "time"

// Professor represents an instructor record.
type Professor struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	// ClassNames is the free-text, comma separated list of subject names the
	// professor teaches, as captured by the coordinator. Resolved to subject
	// records during group generation.
	ClassNames string    `db:"class_names" json:"class_names"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
