package models

import "time"

// Booking links a student to an exam. Only confirmed bookings consume capacity.
type Booking struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"student_id" db:"student_id"`
	ExamID    int64     `json:"exam_id" db:"exam_id"`
	Confirmed bool      `json:"confirmed" db:"confirmed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
