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
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/dberrors"
)

var examColumns = []string{
	"id", "course_id", "date", "location", "max_students", "description", "is_active", "created_at", "updated_at",
}

// ExamRepository handles database operations for exams
type ExamRepository struct {
	db *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{db: db}
}

func scanExam(row pgx.Row) (*models.Exam, error) {
	var e models.Exam
	err := row.Scan(&e.ID, &e.CourseID, &e.Date, &e.Location, &e.MaxStudents, &e.Description, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create creates a new exam
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	now := time.Now().UTC()
	sql, args, err := psql.Insert("exams").
		Columns("course_id", "date", "location", "max_students", "description", "is_active", "created_at", "updated_at").
		Values(exam.CourseID, exam.Date, exam.Location, exam.MaxStudents, exam.Description, exam.IsActive, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewNotFoundError("Course not found")
		}
		return fmt.Errorf("error creating exam: %w", err)
	}
	return nil
}

// GetByID retrieves an exam by ID
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	sql, args, err := psql.Select(examColumns...).From("exams").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Exam not found")
		}
		return nil, fmt.Errorf("error retrieving exam: %w", err)
	}
	return exam, nil
}

func (r *ExamRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Exam, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing exams: %w", err)
	}
	defer rows.Close()

	exams := make([]*models.Exam, 0)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning exam: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func selectExams() squirrel.SelectBuilder {
	return psql.Select(examColumns...).From("exams")
}

// List retrieves exams ordered by id
func (r *ExamRepository) List(ctx context.Context, skip, limit int) ([]*models.Exam, error) {
	return r.list(ctx, page(selectExams().OrderBy("id"), skip, limit))
}

// ListActiveUpcoming retrieves active exams dated after now, soonest first
func (r *ExamRepository) ListActiveUpcoming(ctx context.Context, now time.Time, skip, limit int) ([]*models.Exam, error) {
	q := selectExams().
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Gt{"date": now}).
		OrderBy("date", "id")
	return r.list(ctx, page(q, skip, limit))
}

// ListByCourse retrieves the exams of a course ordered by date
func (r *ExamRepository) ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]*models.Exam, error) {
	q := selectExams().Where(squirrel.Eq{"course_id": courseID}).OrderBy("date", "id")
	return r.list(ctx, page(q, skip, limit))
}

// ListUpcomingByCourse retrieves the active exams of a course dated after now
func (r *ExamRepository) ListUpcomingByCourse(ctx context.Context, courseID int64, now time.Time, skip, limit int) ([]*models.Exam, error) {
	q := selectExams().
		Where(squirrel.Eq{"course_id": courseID, "is_active": true}).
		Where(squirrel.Gt{"date": now}).
		OrderBy("date", "id")
	return r.list(ctx, page(q, skip, limit))
}

// Update persists every mutable exam column
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
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

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Exam not found")
	}
	return nil
}

// Delete removes an exam and its bookings
func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("exams").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Exam not found")
	}
	return nil
}
