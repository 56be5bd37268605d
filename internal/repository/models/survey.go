package models

import "time"

// Survey is the row shape of the surveys table. Payload holds the survey JSON.
type Survey struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Language   string    `db:"language"`
	Provider   string    `db:"provider"`
	Payload    string    `db:"payload"`
	IssueCount int       `db:"issue_count"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
