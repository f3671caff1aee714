package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/auth"
	"github.com/yigit/exambook/internal/pkg/validation"
)

// UserService handles user account operations
type UserService struct {
	userRepo   repositories.IUserRepository
	courseRepo repositories.ICourseRepository
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.IUserRepository, courseRepo repositories.ICourseRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeStudentID trims the identifier and maps blank to nil
func normalizeStudentID(sid *string) *string {
	if sid == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sid)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ensureEmailFree fails with a unique violation when email belongs to a user other than selfID
func (s *UserService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.NewUniqueViolationError("email", "Email already registered")
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("error checking email: %w", err)
	}
	return nil
}

// ensureStudentIDFree fails with a unique violation when sid belongs to a user other than selfID
func (s *UserService) ensureStudentIDFree(ctx context.Context, sid string, selfID int64) error {
	existing, err := s.userRepo.GetByStudentID(ctx, sid)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.NewUniqueViolationError("student_id", "Student ID already registered")
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("error checking student ID: %w", err)
	}
	return nil
}

// CreateUser registers a new account with a hashed password
func (s *UserService) CreateUser(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown role %q", role))
	}
	if !validation.ValidatePassword(req.Password) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", validation.PasswordMinLength))
	}

	email := normalizeEmail(req.Email)
	studentID := normalizeStudentID(req.StudentID)

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	if studentID != nil {
		if err := s.ensureStudentIDFree(ctx, *studentID, 0); err != nil {
			return nil, err
		}
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      role,
		StudentID: studentID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a window of users
func (s *UserService) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	return s.userRepo.List(ctx, skip, limit)
}

// UpdateUser applies a partial update. Uniqueness of email and student id is
// re-checked only when they change; a given password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if req.StudentID != nil {
		sid := normalizeStudentID(req.StudentID)
		changed := (sid == nil) != (user.StudentID == nil) || (sid != nil && *sid != *user.StudentID)
		if changed {
			if sid != nil {
				if err := s.ensureStudentIDFree(ctx, *sid, user.ID); err != nil {
					return nil, err
				}
			}
			user.StudentID = sid
		}
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	if req.Password != nil {
		if !validation.ValidatePassword(*req.Password) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", validation.PasswordMinLength))
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user and the user's bookings. Professors still
// teaching courses can not be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == models.RoleProfessor {
		count, err := s.courseRepo.CountByProfessor(ctx, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, apperrors.NewConflictError(fmt.Sprintf("Professor still teaches %d course(s)", count))
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", id).Msg("User deleted")
	return user, nil
}
