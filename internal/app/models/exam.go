package models

import "time"

// Exam is a scheduled exam session of a course.
type Exam struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"course_id" db:"course_id"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`
	MaxStudents int       `json:"max_students" db:"max_students"`
	Description *string   `json:"description,omitempty" db:"description"` // Nullable
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsUpcoming reports whether the exam takes place strictly after now
func (e *Exam) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}
