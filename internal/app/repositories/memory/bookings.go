package memory

import (
	"context"
	"fmt"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// BookingRepository is the in-memory booking store
type BookingRepository struct {
	s *Store
}

func byBookingID(a, b *models.Booking) bool { return a.ID < b.ID }

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Booking not found")
	}
	return cloneBooking(b), nil
}

func (s *Store) findBookingLocked(studentID, examID int64) *models.Booking {
	for _, b := range s.bookings {
		if b.StudentID == studentID && b.ExamID == examID {
			return b
		}
	}
	return nil
}

func (s *Store) countConfirmedLocked(examID int64) int {
	n := 0
	for _, b := range s.bookings {
		if b.ExamID == examID && b.Confirmed {
			n++
		}
	}
	return n
}

func (r *BookingRepository) GetByStudentAndExam(ctx context.Context, studentID, examID int64) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if b := r.s.findBookingLocked(studentID, examID); b != nil {
		return cloneBooking(b), nil
	}
	return nil, apperrors.NewNotFoundError("Booking not found")
}

func (r *BookingRepository) filter(match func(b *models.Booking) bool, skip, limit int) []*models.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Booking, 0)
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return window(out, byBookingID, skip, limit)
}

func (r *BookingRepository) List(ctx context.Context, skip, limit int) ([]*models.Booking, error) {
	return r.filter(func(*models.Booking) bool { return true }, skip, limit), nil
}

func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64, skip, limit int) ([]*models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.StudentID == studentID }, skip, limit), nil
}

func (r *BookingRepository) ListByExam(ctx context.Context, examID int64, skip, limit int) ([]*models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.ExamID == examID }, skip, limit), nil
}

func (r *BookingRepository) CountConfirmedByExam(ctx context.Context, examID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countConfirmedLocked(examID), nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bookings[id]; !ok {
		return apperrors.NewNotFoundError("Booking not found")
	}
	delete(r.s.bookings, id)
	return nil
}

// RunAdmission holds the store write lock for the duration of fn. Writes made
// through the unit are staged and applied only when fn succeeds.
func (r *BookingRepository) RunAdmission(ctx context.Context, examID int64, fn repositories.AdmissionFn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	exam, ok := r.s.exams[examID]
	if !ok {
		return apperrors.NewNotFoundError("Exam not found")
	}

	tx := &memAdmissionTx{s: r.s, examID: examID}
	if err := fn(ctx, cloneExam(exam), tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memAdmissionTx stages writes until commit; reads see staged writes
type memAdmissionTx struct {
	s      *Store
	examID int64

	inserted []*models.Booking
	updated  []*models.Booking
	exam     *models.Exam
}

func (t *memAdmissionTx) FindBooking(ctx context.Context, studentID int64) (*models.Booking, error) {
	for _, b := range t.inserted {
		if b.StudentID == studentID {
			return cloneBooking(b), nil
		}
	}
	if b := t.s.findBookingLocked(studentID, t.examID); b != nil {
		return cloneBooking(b), nil
	}
	return nil, nil
}

func (t *memAdmissionTx) CountConfirmed(ctx context.Context) (int, error) {
	n := t.s.countConfirmedLocked(t.examID)
	for _, b := range t.inserted {
		if b.Confirmed {
			n++
		}
	}
	for _, b := range t.updated {
		prev := t.s.bookings[b.ID]
		switch {
		case prev.Confirmed && !b.Confirmed:
			n--
		case !prev.Confirmed && b.Confirmed:
			n++
		}
	}
	return n, nil
}

func (t *memAdmissionTx) Insert(ctx context.Context, booking *models.Booking) error {
	if existing, _ := t.FindBooking(ctx, booking.StudentID); existing != nil {
		return apperrors.NewCustomError(apperrors.ErrDuplicateBooking, "Student is already booked for this exam")
	}
	if _, ok := t.s.users[booking.StudentID]; !ok {
		return apperrors.NewNotFoundError("Student not found")
	}

	t.s.nextBookingID++
	now := t.s.now()
	booking.ID = t.s.nextBookingID
	booking.ExamID = t.examID
	booking.CreatedAt = now
	booking.UpdatedAt = now
	t.inserted = append(t.inserted, cloneBooking(booking))
	return nil
}

func (t *memAdmissionTx) SetConfirmed(ctx context.Context, booking *models.Booking) error {
	current, ok := t.s.bookings[booking.ID]
	if !ok || current.ExamID != t.examID {
		return apperrors.NewNotFoundError("Booking not found")
	}
	booking.UpdatedAt = t.s.now()
	next := cloneBooking(current)
	next.Confirmed = booking.Confirmed
	next.UpdatedAt = booking.UpdatedAt
	t.updated = append(t.updated, next)
	return nil
}

func (t *memAdmissionTx) SaveExam(ctx context.Context, exam *models.Exam) error {
	if exam.ID != t.examID {
		return fmt.Errorf("exam %d is not locked by this admission unit", exam.ID)
	}
	current := t.s.exams[t.examID]
	exam.CourseID = current.CourseID
	exam.CreatedAt = current.CreatedAt
	exam.UpdatedAt = t.s.now()
	t.exam = cloneExam(exam)
	return nil
}

func (t *memAdmissionTx) commit() {
	for _, b := range t.inserted {
		t.s.bookings[b.ID] = b
	}
	for _, b := range t.updated {
		t.s.bookings[b.ID] = b
	}
	if t.exam != nil {
		t.s.exams[t.examID] = t.exam
	}
}
