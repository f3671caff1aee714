package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"mario.rossi@uni.it"`         // User's email address
	Password  string    `json:"-" db:"hashed_password"`                                // User's hashed password (excluded from JSON)
	FirstName string    `json:"first_name" db:"first_name" example:"Mario"`            // User's first name
	LastName  string    `json:"last_name" db:"last_name" example:"Rossi"`              // User's last name
	Role      RoleType  `json:"role" db:"role" example:"student"`                      // student, professor or admin
	StudentID *string   `json:"student_id,omitempty" db:"student_id" example:"S12345"` // Student identifier (nullable, unique)
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsStudent reports whether the user has the student role
func (u *User) IsStudent() bool {
	return u != nil && u.Role == RoleStudent
}

// HasRole reports whether the user holds role r
func (u *User) HasRole(r RoleType) bool {
	return u != nil && u.Role == r
}
