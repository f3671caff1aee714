package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// ExamService handles exam session operations
type ExamService struct {
	examRepo    repositories.IExamRepository
	courseRepo  repositories.ICourseRepository
	bookingRepo repositories.IBookingRepository
	now         Clock
	logger      zerolog.Logger
}

// NewExamService creates a new ExamService
func NewExamService(
	examRepo repositories.IExamRepository,
	courseRepo repositories.ICourseRepository,
	bookingRepo repositories.IBookingRepository,
	clock Clock,
	logger zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:    examRepo,
		courseRepo:  courseRepo,
		bookingRepo: bookingRepo,
		now:         clock,
		logger:      logger,
	}
}

// CreateExam schedules an exam for an existing course
func (s *ExamService) CreateExam(ctx context.Context, req *dto.CreateExamRequest) (*models.Exam, error) {
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if !req.Date.After(s.now()) {
		return nil, apperrors.NewValidationError("Exam date must be in the future")
	}
	if req.MaxStudents <= 0 {
		return nil, apperrors.NewValidationError("Maximum number of students must be positive")
	}

	exam := &models.Exam{
		CourseID:    req.CourseID,
		Date:        req.Date.UTC(),
		Location:    strings.TrimSpace(req.Location),
		MaxStudents: req.MaxStudents,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}

	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("examID", exam.ID).Int64("courseID", exam.CourseID).Msg("Exam created")
	return exam, nil
}

// GetExam returns an exam by id
func (s *ExamService) GetExam(ctx context.Context, id int64) (*models.Exam, error) {
	return s.examRepo.GetByID(ctx, id)
}

// ListExams returns a window of exams
func (s *ExamService) ListExams(ctx context.Context, skip, limit int) ([]*models.Exam, error) {
	return s.examRepo.List(ctx, skip, limit)
}

// ListActiveExams returns active exams that have not taken place yet
func (s *ExamService) ListActiveExams(ctx context.Context, skip, limit int) ([]*models.Exam, error) {
	return s.examRepo.ListActiveUpcoming(ctx, s.now(), skip, limit)
}

// ListByCourse returns the exams of a course
func (s *ExamService) ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]*models.Exam, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.examRepo.ListByCourse(ctx, courseID, skip, limit)
}

// ListUpcomingByCourse returns the active future exams of a course
func (s *ExamService) ListUpcomingByCourse(ctx context.Context, courseID int64, skip, limit int) ([]*models.Exam, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.examRepo.ListUpcomingByCourse(ctx, courseID, s.now(), skip, limit)
}

// UpdateExam applies a partial update under the exam lock so that capacity
// can not drop below the confirmed bookings taken concurrently.
func (s *ExamService) UpdateExam(ctx context.Context, id int64, req *dto.UpdateExamRequest) (*models.Exam, error) {
	if req.Date != nil && !req.Date.After(s.now()) {
		return nil, apperrors.NewValidationError("Exam date must be in the future")
	}
	if req.MaxStudents != nil && *req.MaxStudents <= 0 {
		return nil, apperrors.NewValidationError("Maximum number of students must be positive")
	}

	var updated *models.Exam
	err := s.bookingRepo.RunAdmission(ctx, id, func(ctx context.Context, exam *models.Exam, tx repositories.AdmissionTx) error {
		if req.MaxStudents != nil && *req.MaxStudents < exam.MaxStudents {
			confirmed, err := tx.CountConfirmed(ctx)
			if err != nil {
				return err
			}
			if *req.MaxStudents < confirmed {
				return apperrors.NewValidationError(
					fmt.Sprintf("Maximum number of students can not be lower than the %d confirmed bookings", confirmed))
			}
		}

		if req.Date != nil {
			exam.Date = req.Date.UTC()
		}
		if req.Location != nil {
			exam.Location = strings.TrimSpace(*req.Location)
		}
		if req.MaxStudents != nil {
			exam.MaxStudents = *req.MaxStudents
		}
		if req.Description != nil {
			exam.Description = req.Description
		}
		if req.IsActive != nil {
			exam.IsActive = *req.IsActive
		}

		if err := tx.SaveExam(ctx, exam); err != nil {
			return err
		}
		updated = exam
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteExam removes an exam and its bookings
func (s *ExamService) DeleteExam(ctx context.Context, id int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("examID", id).Msg("Exam deleted")
	return exam, nil
}
