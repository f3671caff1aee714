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
)

// CourseService handles course catalog operations
type CourseService struct {
	courseRepo repositories.ICourseRepository
	userRepo   repositories.IUserRepository
	logger     zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo repositories.ICourseRepository, userRepo repositories.IUserRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// requireProfessor loads id and checks it holds the professor role
func (s *CourseService) requireProfessor(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Professor not found")
		}
		return nil, err
	}
	if user.Role != models.RoleProfessor {
		return nil, apperrors.NewInvalidRoleError("The specified user is not a professor")
	}
	return user, nil
}

// ensureCodeFree fails when code is used by a course other than selfID
func (s *CourseService) ensureCodeFree(ctx context.Context, code string, selfID int64) error {
	existing, err := s.courseRepo.GetByCode(ctx, code)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.NewUniqueViolationError("code", fmt.Sprintf("Course code %s already exists", code))
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return err
	}
	return nil
}

// CreateCourse creates a course taught by an existing professor
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("Course code is required")
	}
	if req.Credits <= 0 {
		return nil, apperrors.NewValidationError("Credits must be positive")
	}
	if err := s.ensureCodeFree(ctx, code, 0); err != nil {
		return nil, err
	}
	if _, err := s.requireProfessor(ctx, req.ProfessorID); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:        strings.TrimSpace(req.Name),
		Code:        code,
		Credits:     req.Credits,
		ProfessorID: req.ProfessorID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Str("code", course.Code).Msg("Course created")
	return course, nil
}

// GetCourse returns a course by id
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses returns a window of courses
func (s *CourseService) ListCourses(ctx context.Context, skip, limit int) ([]*models.Course, error) {
	return s.courseRepo.List(ctx, skip, limit)
}

// ListByProfessor returns the courses of a professor
func (s *CourseService) ListByProfessor(ctx context.Context, professorID int64, skip, limit int) ([]*models.Course, error) {
	if _, err := s.requireProfessor(ctx, professorID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListByProfessor(ctx, professorID, skip, limit)
}

// UpdateCourse applies a partial update; code and professor are re-validated when changed
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, apperrors.NewValidationError("Course code is required")
		}
		if code != course.Code {
			if err := s.ensureCodeFree(ctx, code, course.ID); err != nil {
				return nil, err
			}
			course.Code = code
		}
	}
	if req.ProfessorID != nil && *req.ProfessorID != course.ProfessorID {
		if _, err := s.requireProfessor(ctx, *req.ProfessorID); err != nil {
			return nil, err
		}
		course.ProfessorID = *req.ProfessorID
	}
	if req.Credits != nil {
		if *req.Credits <= 0 {
			return nil, apperrors.NewValidationError("Credits must be positive")
		}
		course.Credits = *req.Credits
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course with its exams and their bookings
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return course, nil
}
