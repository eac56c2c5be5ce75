package models

import "time"

// Quiz is the database row shape of a persisted quiz. Questions are stored
// as a JSON CLOB; the rest of the aggregate is flat columns.
type Quiz struct {
	ID             string    `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	Questions      string    `db:"questions"`
	CreatedAt      time.Time `db:"created_at"`
	Status         string    `db:"status"`
	UserID         string    `db:"user_id"`
	DocumentID     string    `db:"document_id"`
	TotalQuestions int       `db:"total_questions"`
}
