package memory

import (
	"context"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// UserRepository is the in-memory identity store
type UserRepository struct {
	s *Store
}

// checkUserUniqueLocked enforces the email and student_id unique keys
func (s *Store) checkUserUniqueLocked(u *models.User) error {
	for _, other := range s.users {
		if other.ID == u.ID {
			continue
		}
		if other.Email == u.Email {
			return apperrors.NewUniqueViolationError("email", "Email already registered")
		}
		if u.StudentID != nil && other.StudentID != nil && *other.StudentID == *u.StudentID {
			return apperrors.NewUniqueViolationError("student_id", "Student ID already registered")
		}
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.ID = 0
	if err := r.s.checkUserUniqueLocked(user); err != nil {
		return err
	}

	r.s.nextUserID++
	now := r.s.now()
	user.ID = r.s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) find(match func(u *models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.NewNotFoundError("User not found")
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	u, ok := r.s.users[id]
	r.s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.StudentID != nil && *u.StudentID == studentID })
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, cloneUser(u))
	}
	return window(all, func(a, b *models.User) bool { return a.ID < b.ID }, skip, limit), nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return apperrors.NewNotFoundError("User not found")
	}
	if err := r.s.checkUserUniqueLocked(user); err != nil {
		return err
	}

	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// Delete removes a user and the user's bookings. Professors still owning
// courses are rejected.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperrors.NewNotFoundError("User not found")
	}
	for _, c := range r.s.courses {
		if c.ProfessorID == id {
			return apperrors.NewConflictError("User is still referenced by courses")
		}
	}

	delete(r.s.users, id)
	for bid, b := range r.s.bookings {
		if b.StudentID == id {
			delete(r.s.bookings, bid)
		}
	}
	return nil
}
