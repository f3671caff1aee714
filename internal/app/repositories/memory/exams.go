package memory

import (
	"context"
	"time"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// ExamRepository is the in-memory exam store
type ExamRepository struct {
	s *Store
}

func byDate(a, b *models.Exam) bool {
	if a.Date.Equal(b.Date) {
		return a.ID < b.ID
	}
	return a.Date.Before(b.Date)
}

func byID(a, b *models.Exam) bool { return a.ID < b.ID }

func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[exam.CourseID]; !ok {
		return apperrors.NewNotFoundError("Course not found")
	}

	r.s.nextExamID++
	now := r.s.now()
	exam.ID = r.s.nextExamID
	exam.CreatedAt = now
	exam.UpdatedAt = now
	r.s.exams[exam.ID] = cloneExam(exam)
	return nil
}

func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.exams[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Exam not found")
	}
	return cloneExam(e), nil
}

func (r *ExamRepository) filter(match func(e *models.Exam) bool, less func(a, b *models.Exam) bool, skip, limit int) []*models.Exam {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Exam, 0)
	for _, e := range r.s.exams {
		if match(e) {
			out = append(out, cloneExam(e))
		}
	}
	return window(out, less, skip, limit)
}

func (r *ExamRepository) List(ctx context.Context, skip, limit int) ([]*models.Exam, error) {
	return r.filter(func(*models.Exam) bool { return true }, byID, skip, limit), nil
}

func (r *ExamRepository) ListActiveUpcoming(ctx context.Context, now time.Time, skip, limit int) ([]*models.Exam, error) {
	return r.filter(func(e *models.Exam) bool { return e.IsActive && e.IsUpcoming(now) }, byDate, skip, limit), nil
}

func (r *ExamRepository) ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]*models.Exam, error) {
	return r.filter(func(e *models.Exam) bool { return e.CourseID == courseID }, byDate, skip, limit), nil
}

func (r *ExamRepository) ListUpcomingByCourse(ctx context.Context, courseID int64, now time.Time, skip, limit int) ([]*models.Exam, error) {
	match := func(e *models.Exam) bool { return e.CourseID == courseID && e.IsActive && e.IsUpcoming(now) }
	return r.filter(match, byDate, skip, limit), nil
}

func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.saveExamLocked(exam)
}

func (s *Store) saveExamLocked(exam *models.Exam) error {
	current, ok := s.exams[exam.ID]
	if !ok {
		return apperrors.NewNotFoundError("Exam not found")
	}
	exam.CourseID = current.CourseID
	exam.CreatedAt = current.CreatedAt
	exam.UpdatedAt = s.now()
	s.exams[exam.ID] = cloneExam(exam)
	return nil
}

func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.exams[id]; !ok {
		return apperrors.NewNotFoundError("Exam not found")
	}
	r.s.deleteExamLocked(id)
	return nil
}
