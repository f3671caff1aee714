package dto

import (
	"time"

	"github.com/yigit/exambook/internal/app/models"
)

// CreateCourseRequest represents a course creation request
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required" example:"Introduction to Programming"`
	Code        string `json:"code" binding:"required,max=32" example:"CS101"`
	Credits     int    `json:"credits" binding:"required,gt=0" example:"6"`
	ProfessorID int64  `json:"professor_id" binding:"required,gt=0" example:"2"`
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Code        *string `json:"code,omitempty" binding:"omitempty,min=1,max=32"`
	Credits     *int    `json:"credits,omitempty" binding:"omitempty,gt=0"`
	ProfessorID *int64  `json:"professor_id,omitempty" binding:"omitempty,gt=0"`
}

// CourseResponse represents course information
type CourseResponse struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"Introduction to Programming"`
	Code        string    `json:"code" example:"CS101"`
	Credits     int       `json:"credits" example:"6"`
	ProfessorID int64     `json:"professor_id" example:"2"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCourseResponse maps a course model
func NewCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Code:        c.Code,
		Credits:     c.Credits,
		ProfessorID: c.ProfessorID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewCourseListResponse maps a slice of courses
func NewCourseListResponse(courses []*models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}
