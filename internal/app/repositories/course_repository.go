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

var courseColumns = []string{"id", "name", "code", "credits", "professor_id", "created_at", "updated_at"}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Credits, &c.ProfessorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func courseWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "courses_code_key"):
		return apperrors.NewUniqueViolationError("code", "Course code already exists")
	case dberrors.IsForeignKeyError(err):
		return apperrors.NewNotFoundError("Professor not found")
	}
	return err
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	sql, args, err := psql.Insert("courses").
		Columns("name", "code", "credits", "professor_id", "created_at", "updated_at").
		Values(course.Name, course.Code, course.Credits, course.ProfessorID, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		if mapped := courseWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func (r *CourseRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Course, error) {
	sql, args, err := psql.Select(courseColumns...).From("courses").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("Course not found")
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a course by its unique code
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code})
}

func (r *CourseRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// List retrieves courses ordered by id
func (r *CourseRepository) List(ctx context.Context, skip, limit int) ([]*models.Course, error) {
	return r.list(ctx, page(psql.Select(courseColumns...).From("courses").OrderBy("id"), skip, limit))
}

// ListByProfessor retrieves the courses taught by a professor
func (r *CourseRepository) ListByProfessor(ctx context.Context, professorID int64, skip, limit int) ([]*models.Course, error) {
	q := psql.Select(courseColumns...).From("courses").Where(squirrel.Eq{"professor_id": professorID}).OrderBy("id")
	return r.list(ctx, page(q, skip, limit))
}

// CountByProfessor counts the courses taught by a professor
func (r *CourseRepository) CountByProfessor(ctx context.Context, professorID int64) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").From("courses").Where(squirrel.Eq{"professor_id": professorID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// Update persists every mutable course column
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	sql, args, err := psql.Update("courses").
		Set("name", course.Name).
		Set("code", course.Code).
		Set("credits", course.Credits).
		Set("professor_id", course.ProfessorID).
		Set("updated_at", course.UpdatedAt).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := courseWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Course not found")
	}
	return nil
}

// Delete removes a course together with its exams and their bookings
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("Course not found")
	}
	return nil
}
