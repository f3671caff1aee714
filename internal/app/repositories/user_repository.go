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
	"github.com/yigit/exambook/internal/pkg/logger"
)

var userColumns = []string{
	"id", "email", "hashed_password", "first_name", "last_name", "role", "student_id", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Role, &u.StudentID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// userWriteError maps constraint violations raised by user writes
func userWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
		return apperrors.NewUniqueViolationError("email", "Email already registered")
	case dberrors.IsDuplicateConstraintError(err, "users_student_id_key"):
		return apperrors.NewUniqueViolationError("student_id", "Student ID already registered")
	case dberrors.IsDuplicateKeyError(err):
		return apperrors.NewUniqueViolationError("", "User already exists")
	}
	return err
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	sql, args, err := psql.Insert("users").
		Columns("email", "hashed_password", "first_name", "last_name", "role", "student_id", "created_at", "updated_at").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.Role, user.StudentID, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if mapped := userWriteError(err); mapped != err {
			return mapped
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Failed to insert user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByStudentID retrieves a user by student identifier
func (r *UserRepository) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"student_id": studentID})
}

// List retrieves users ordered by id
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*models.User, error) {
	sql, args, err := page(psql.Select(userColumns...).From("users").OrderBy("id"), skip, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update persists every mutable user column
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	sql, args, err := psql.Update("users").
		Set("email", user.Email).
		Set("hashed_password", user.Password).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("role", user.Role).
		Set("student_id", user.StudentID).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := userWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}

// Delete removes a user. Bookings of the user are removed by cascade; a
// professor still owning courses is rejected by the foreign key.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewConflictError("User is still referenced by courses")
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}
