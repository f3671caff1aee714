package memory

import (
	"context"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// CourseRepository is the in-memory course store
type CourseRepository struct {
	s *Store
}

func (s *Store) checkCourseLocked(c *models.Course) error {
	if _, ok := s.users[c.ProfessorID]; !ok {
		return apperrors.NewNotFoundError("Professor not found")
	}
	for _, other := range s.courses {
		if other.ID != c.ID && other.Code == c.Code {
			return apperrors.NewUniqueViolationError("code", "Course code already exists")
		}
	}
	return nil
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	course.ID = 0
	if err := r.s.checkCourseLocked(course); err != nil {
		return err
	}

	r.s.nextCourseID++
	now := r.s.now()
	course.ID = r.s.nextCourseID
	course.CreatedAt = now
	course.UpdatedAt = now
	r.s.courses[course.ID] = cloneCourse(course)
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Course not found")
	}
	return cloneCourse(c), nil
}

func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.courses {
		if c.Code == code {
			return cloneCourse(c), nil
		}
	}
	return nil, apperrors.NewNotFoundError("Course not found")
}

func (r *CourseRepository) filter(match func(c *models.Course) bool, skip, limit int) []*models.Course {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Course, 0)
	for _, c := range r.s.courses {
		if match(c) {
			out = append(out, cloneCourse(c))
		}
	}
	return window(out, func(a, b *models.Course) bool { return a.ID < b.ID }, skip, limit)
}

func (r *CourseRepository) List(ctx context.Context, skip, limit int) ([]*models.Course, error) {
	return r.filter(func(*models.Course) bool { return true }, skip, limit), nil
}

func (r *CourseRepository) ListByProfessor(ctx context.Context, professorID int64, skip, limit int) ([]*models.Course, error) {
	return r.filter(func(c *models.Course) bool { return c.ProfessorID == professorID }, skip, limit), nil
}

func (r *CourseRepository) CountByProfessor(ctx context.Context, professorID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, c := range r.s.courses {
		if c.ProfessorID == professorID {
			n++
		}
	}
	return n, nil
}

func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.courses[course.ID]
	if !ok {
		return apperrors.NewNotFoundError("Course not found")
	}
	if err := r.s.checkCourseLocked(course); err != nil {
		return err
	}

	course.CreatedAt = current.CreatedAt
	course.UpdatedAt = r.s.now()
	r.s.courses[course.ID] = cloneCourse(course)
	return nil
}

// Delete removes a course, its exams and their bookings
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[id]; !ok {
		return apperrors.NewNotFoundError("Course not found")
	}
	delete(r.s.courses, id)
	for eid, e := range r.s.exams {
		if e.CourseID == id {
			r.s.deleteExamLocked(eid)
		}
	}
	return nil
}
