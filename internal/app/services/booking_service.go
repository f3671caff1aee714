package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/metrics"
)

// SeatNotifier receives the seat count of an exam after every booking change
type SeatNotifier interface {
	PublishSeats(examID int64, confirmed, maxStudents int)
}

// BookingService is the booking admission engine
type BookingService struct {
	bookingRepo repositories.IBookingRepository
	userRepo    repositories.IUserRepository
	examRepo    repositories.IExamRepository
	notifier    SeatNotifier
	now         Clock
	logger      zerolog.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo repositories.IBookingRepository,
	userRepo repositories.IUserRepository,
	examRepo repositories.IExamRepository,
	clock Clock,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		examRepo:    examRepo,
		now:         clock,
		logger:      logger,
	}
}

// SetSeatNotifier attaches a listener for seat count changes
func (s *BookingService) SetSeatNotifier(n SeatNotifier) {
	s.notifier = n
}

// SeatAvailability returns the confirmed count and capacity of an existing exam
func (s *BookingService) SeatAvailability(ctx context.Context, examID int64) (confirmed, maxStudents int, err error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return 0, 0, err
	}
	confirmed, err = s.bookingRepo.CountConfirmedByExam(ctx, examID)
	if err != nil {
		return 0, 0, err
	}
	return confirmed, exam.MaxStudents, nil
}

// notifySeats publishes the current seat count. Failures are logged only,
// the booking change is already committed.
func (s *BookingService) notifySeats(ctx context.Context, examID int64) {
	if s.notifier == nil {
		return
	}
	confirmed, maxStudents, err := s.SeatAvailability(ctx, examID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("examID", examID).Msg("Failed to read seat availability")
		return
	}
	s.notifier.PublishSeats(examID, confirmed, maxStudents)
}

func admissionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAdmitted
	case errors.Is(err, apperrors.ErrDuplicateBooking):
		return metrics.OutcomeDuplicate
	case errors.Is(err, apperrors.ErrExamFull):
		return metrics.OutcomeFull
	case errors.Is(err, apperrors.ErrExamInactive):
		return metrics.OutcomeInactive
	case errors.Is(err, apperrors.ErrExamPassed):
		return metrics.OutcomePassed
	case errors.Is(err, apperrors.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, apperrors.ErrInvalidRole):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// requireStudent loads a user and checks the student role
func (s *BookingService) requireStudent(ctx context.Context, studentID int64) (*models.User, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Student not found")
		}
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewInvalidRoleError("The user is not a student")
	}
	return student, nil
}

// CreateBooking admits a student to an exam. The checks run in order and the
// first failure wins: student exists and is a student, exam exists, is
// active, is in the future, the student is not booked yet, a seat is left.
// Everything after the student check runs inside the exam's admission unit.
func (s *BookingService) CreateBooking(ctx context.Context, studentID, examID int64) (booking *models.Booking, err error) {
	defer func() {
		metrics.ObserveAdmission(admissionOutcome(err))
		if err != nil {
			s.logger.Info().Err(err).Int64("studentID", studentID).Int64("examID", examID).Msg("Booking rejected")
		}
	}()

	if _, err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	err = s.bookingRepo.RunAdmission(ctx, examID, func(ctx context.Context, exam *models.Exam, tx repositories.AdmissionTx) error {
		if !exam.IsActive {
			return apperrors.NewCustomError(apperrors.ErrExamInactive, "The exam is not active")
		}
		if !exam.IsUpcoming(s.now()) {
			return apperrors.NewCustomError(apperrors.ErrExamPassed, "The exam has already taken place")
		}

		existing, err := tx.FindBooking(ctx, studentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewCustomError(apperrors.ErrDuplicateBooking, "Student is already booked for this exam")
		}

		confirmed, err := tx.CountConfirmed(ctx)
		if err != nil {
			return err
		}
		if confirmed >= exam.MaxStudents {
			return apperrors.NewCustomError(apperrors.ErrExamFull, "No seats left for this exam")
		}

		b := &models.Booking{StudentID: studentID, ExamID: examID, Confirmed: true}
		if err := tx.Insert(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("bookingID", booking.ID).Int64("studentID", studentID).Int64("examID", examID).Msg("Booking admitted")
	s.notifySeats(ctx, examID)
	return booking, nil
}

// GetBooking returns a booking by id
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings returns a window of bookings
func (s *BookingService) ListBookings(ctx context.Context, skip, limit int) ([]*models.Booking, error) {
	return s.bookingRepo.List(ctx, skip, limit)
}

// ListByStudent returns the bookings of an existing user
func (s *BookingService) ListByStudent(ctx context.Context, studentID int64, skip, limit int) ([]*models.Booking, error) {
	if _, err := s.userRepo.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Student not found")
		}
		return nil, err
	}
	return s.bookingRepo.ListByStudent(ctx, studentID, skip, limit)
}

// ListByExam returns the bookings of an existing exam
func (s *BookingService) ListByExam(ctx context.Context, examID int64, skip, limit int) ([]*models.Booking, error) {
	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByExam(ctx, examID, skip, limit)
}

// CountConfirmedByExam counts the confirmed bookings of an existing exam
func (s *BookingService) CountConfirmedByExam(ctx context.Context, examID int64) (int, error) {
	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		return 0, err
	}
	return s.bookingRepo.CountConfirmedByExam(ctx, examID)
}

// UpdateBooking sets the confirmation flag. Confirming an unconfirmed booking
// takes a seat and is refused when the exam is full.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, confirmed bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.bookingRepo.RunAdmission(ctx, booking.ExamID, func(ctx context.Context, exam *models.Exam, tx repositories.AdmissionTx) error {
		current, err := tx.FindBooking(ctx, booking.StudentID)
		if err != nil {
			return err
		}
		if current == nil || current.ID != booking.ID {
			return apperrors.NewNotFoundError("Booking not found")
		}

		if confirmed && !current.Confirmed {
			count, err := tx.CountConfirmed(ctx)
			if err != nil {
				return err
			}
			if count >= exam.MaxStudents {
				return apperrors.NewCustomError(apperrors.ErrExamFull, "No seats left for this exam")
			}
		}

		current.Confirmed = confirmed
		if err := tx.SetConfirmed(ctx, current); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifySeats(ctx, booking.ExamID)
	return booking, nil
}

// DeleteBooking removes a booking by id
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.notifySeats(ctx, booking.ExamID)
	return booking, nil
}

// CancelBooking removes the booking of a student for an exam
func (s *BookingService) CancelBooking(ctx context.Context, studentID, examID int64) error {
	booking, err := s.bookingRepo.GetByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, booking.ID); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", studentID).Int64("examID", examID).Msg("Booking cancelled")
	s.notifySeats(ctx, examID)
	return nil
}
