package dto

import (
	"time"

	"github.com/yigit/exambook/internal/app/models"
)

// CreateBookingRequest represents a booking request.
// student_id defaults to the caller.
type CreateBookingRequest struct {
	ExamID    int64  `json:"exam_id" binding:"required,gt=0" example:"1"`
	StudentID *int64 `json:"student_id,omitempty" binding:"omitempty,gt=0" example:"5"`
}

// UpdateBookingRequest changes the confirmation state of a booking
type UpdateBookingRequest struct {
	Confirmed *bool `json:"confirmed" binding:"required" example:"false"`
}

// BookingResponse represents booking information
type BookingResponse struct {
	ID        int64     `json:"id" example:"1"`
	StudentID int64     `json:"student_id" example:"5"`
	ExamID    int64     `json:"exam_id" example:"1"`
	Confirmed bool      `json:"confirmed" example:"true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBookingResponse maps a booking model
func NewBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		StudentID: b.StudentID,
		ExamID:    b.ExamID,
		Confirmed: b.Confirmed,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// NewBookingListResponse maps a slice of bookings
func NewBookingListResponse(bookings []*models.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}
