package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/db"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/dberrors"
	"github.com/yigit/exambook/internal/pkg/logger"
)

const bookingUniqueConstraint = "bookings_student_exam_key"

var bookingColumns = []string{"id", "student_id", "exam_id", "confirmed", "created_at", "updated_at"}

// BookingRepository handles database operations for bookings
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	if err := row.Scan(&b.ID, &b.StudentID, &b.ExamID, &b.Confirmed, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func getBooking(ctx context.Context, q db.DBTX, where squirrel.Sqlizer) (*models.Booking, error) {
	sql, args, err := psql.Select(bookingColumns...).From("bookings").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	booking, err := scanBooking(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Booking not found")
		}
		return nil, fmt.Errorf("error retrieving booking: %w", err)
	}
	return booking, nil
}

func countConfirmed(ctx context.Context, q db.DBTX, examID int64) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").From("bookings").
		Where(squirrel.Eq{"exam_id": examID, "confirmed": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting bookings: %w", err)
	}
	return count, nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return getBooking(ctx, r.db, squirrel.Eq{"id": id})
}

// GetByStudentAndExam retrieves the booking of a student for an exam
func (r *BookingRepository) GetByStudentAndExam(ctx context.Context, studentID, examID int64) (*models.Booking, error) {
	return getBooking(ctx, r.db, squirrel.Eq{"student_id": studentID, "exam_id": examID})
}

func (r *BookingRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Booking, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// List retrieves bookings ordered by id
func (r *BookingRepository) List(ctx context.Context, skip, limit int) ([]*models.Booking, error) {
	q := psql.Select(bookingColumns...).From("bookings").OrderBy("id")
	return r.list(ctx, page(q, skip, limit))
}

// ListByStudent retrieves the bookings of a student
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64, skip, limit int) ([]*models.Booking, error) {
	q := psql.Select(bookingColumns...).From("bookings").Where(squirrel.Eq{"student_id": studentID}).OrderBy("id")
	return r.list(ctx, page(q, skip, limit))
}

// ListByExam retrieves the bookings of an exam
func (r *BookingRepository) ListByExam(ctx context.Context, examID int64, skip, limit int) ([]*models.Booking, error) {
	q := psql.Select(bookingColumns...).From("bookings").Where(squirrel.Eq{"exam_id": examID}).OrderBy("id")
	return r.list(ctx, page(q, skip, limit))
}

// CountConfirmedByExam counts the confirmed bookings of an exam
func (r *BookingRepository) CountConfirmedByExam(ctx context.Context, examID int64) (int, error) {
	return countConfirmed(ctx, r.db, examID)
}

// Delete removes a booking
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Booking not found")
	}
	return nil
}

// RunAdmission opens a transaction, takes a row lock on the exam with
// SELECT ... FOR UPDATE and runs fn. Concurrent admissions for the same exam
// queue on the lock until the holder commits or rolls back.
func (r *BookingRepository) RunAdmission(ctx context.Context, examID int64, fn AdmissionFn) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Select(examColumns...).From("exams").
			Where(squirrel.Eq{"id": examID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		exam, err := scanExam(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("Exam not found")
			}
			return fmt.Errorf("error locking exam: %w", err)
		}

		return fn(ctx, exam, &pgAdmissionTx{tx: tx, examID: examID})
	})
}

// pgAdmissionTx implements AdmissionTx over an open transaction
type pgAdmissionTx struct {
	tx     pgx.Tx
	examID int64
}

func (a *pgAdmissionTx) FindBooking(ctx context.Context, studentID int64) (*models.Booking, error) {
	booking, err := getBooking(ctx, a.tx, squirrel.Eq{"student_id": studentID, "exam_id": a.examID})
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return booking, err
}

func (a *pgAdmissionTx) CountConfirmed(ctx context.Context) (int, error) {
	return countConfirmed(ctx, a.tx, a.examID)
}

func (a *pgAdmissionTx) Insert(ctx context.Context, booking *models.Booking) error {
	now := time.Now().UTC()
	sql, args, err := psql.Insert("bookings").
		Columns("student_id", "exam_id", "confirmed", "created_at", "updated_at").
		Values(booking.StudentID, a.examID, booking.Confirmed, now, now).
		Suffix("RETURNING id, exam_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = a.tx.QueryRow(ctx, sql, args...).Scan(&booking.ID, &booking.ExamID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, bookingUniqueConstraint):
			return apperrors.NewCustomError(apperrors.ErrDuplicateBooking, "Student is already booked for this exam")
		case dberrors.IsForeignKeyError(err):
			return apperrors.NewNotFoundError("Student not found")
		}
		logger.Error().Err(err).Int64("examID", a.examID).Int64("studentID", booking.StudentID).Msg("Failed to insert booking")
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (a *pgAdmissionTx) SetConfirmed(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	sql, args, err := psql.Update("bookings").
		Set("confirmed", booking.Confirmed).
		Set("updated_at", booking.UpdatedAt).
		Where(squirrel.Eq{"id": booking.ID, "exam_id": a.examID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := a.tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Booking not found")
	}
	return nil
}

func (a *pgAdmissionTx) SaveExam(ctx context.Context, exam *models.Exam) error {
	if exam.ID != a.examID {
		return fmt.Errorf("exam %d is not locked by this admission unit", exam.ID)
	}
	exam.UpdatedAt = time.Now().UTC()
	sql, args, err := psql.Update("exams").
		Set("date", exam.Date).
		Set("location", exam.Location).
		Set("max_students", exam.MaxStudents).
		Set("description", exam.Description).
		Set("is_active", exam.IsActive).
		Set("updated_at", exam.UpdatedAt).
		Where(squirrel.Eq{"id": exam.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := a.tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating exam: %w", err)
	}
	return nil
}
