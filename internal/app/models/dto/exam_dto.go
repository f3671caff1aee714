package dto

import (
	"time"

	"github.com/yigit/exambook/internal/app/models"
)

// CreateExamRequest represents an exam creation request.
// is_active defaults to true when omitted.
type CreateExamRequest struct {
	CourseID    int64     `json:"course_id" binding:"required,gt=0" example:"1"`
	Date        time.Time `json:"date" binding:"required" example:"2030-06-15T09:00:00Z"`
	Location    string    `json:"location" binding:"required" example:"Room A1"`
	MaxStudents int       `json:"max_students" binding:"required" example:"30"`
	Description *string   `json:"description,omitempty" example:"Written exam"`
	IsActive    *bool     `json:"is_active,omitempty" example:"true"`
}

// UpdateExamRequest represents a partial exam update
type UpdateExamRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,min=1"`
	MaxStudents *int       `json:"max_students,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// ExamResponse represents exam information
type ExamResponse struct {
	ID          int64     `json:"id" example:"1"`
	CourseID    int64     `json:"course_id" example:"1"`
	Date        time.Time `json:"date" example:"2030-06-15T09:00:00Z"`
	Location    string    `json:"location" example:"Room A1"`
	MaxStudents int       `json:"max_students" example:"30"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active" example:"true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewExamResponse maps an exam model
func NewExamResponse(e *models.Exam) ExamResponse {
	return ExamResponse{
		ID:          e.ID,
		CourseID:    e.CourseID,
		Date:        e.Date,
		Location:    e.Location,
		MaxStudents: e.MaxStudents,
		Description: e.Description,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// NewExamListResponse maps a slice of exams
func NewExamListResponse(exams []*models.Exam) []ExamResponse {
	out := make([]ExamResponse, 0, len(exams))
	for _, e := range exams {
		out = append(out, NewExamResponse(e))
	}
	return out
}
