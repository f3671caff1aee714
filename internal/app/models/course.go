package models

import "time"

// Course represents a course taught by a professor.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Credits     int       `json:"credits" db:"credits"`
	ProfessorID int64     `json:"professor_id" db:"professor_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
