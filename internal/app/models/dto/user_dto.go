package dto

import (
	"time"

	"github.com/yigit/exambook/internal/app/models"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email" example:"ada@uni.example"`
	Password  string          `json:"password" binding:"required,password" example:"s3cretpass"`
	FirstName string          `json:"first_name" binding:"required,personname" example:"Ada"`
	LastName  string          `json:"last_name" binding:"required,personname" example:"Lovelace"`
	Role      models.RoleType `json:"role" binding:"omitempty,oneof=student professor admin" example:"student"`
	StudentID *string         `json:"student_id,omitempty" binding:"omitempty,studentid" example:"S-1001"`
}

// UpdateUserRequest represents a partial user update; nil fields are left unchanged
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,personname"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,personname"`
	Password  *string `json:"password,omitempty" binding:"omitempty,password"`
	StudentID *string `json:"student_id,omitempty" binding:"omitempty,studentid"`
}

// UserResponse represents user information without credentials
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"ada@uni.example"`
	FirstName string    `json:"first_name" example:"Ada"`
	LastName  string    `json:"last_name" example:"Lovelace"`
	Role      string    `json:"role" example:"student" enums:"student,professor,admin"`
	StudentID *string   `json:"student_id,omitempty" example:"S-1001"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a user model to its public representation
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		StudentID: u.StudentID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserListResponse maps a slice of users
func NewUserListResponse(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
