// Package memory provides mutex-guarded in-process implementations of the
// repository interfaces. It mirrors the PostgreSQL schema constraints
// (unique keys, cascades, restrict on course professors) and is used by
// tests and by the "memory" database driver.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/helpers"
)

// Store holds every table. A single RWMutex guards all of them so
// cascades and admission units are atomic.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*models.User
	courses  map[int64]*models.Course
	exams    map[int64]*models.Exam
	bookings map[int64]*models.Booking

	nextUserID    int64
	nextCourseID  int64
	nextExamID    int64
	nextBookingID int64

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		courses:  make(map[int64]*models.Course),
		exams:    make(map[int64]*models.Exam),
		bookings: make(map[int64]*models.Booking),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:    &UserRepository{s: s},
		CourseRepository:  &CourseRepository{s: s},
		ExamRepository:    &ExamRepository{s: s},
		BookingRepository: &BookingRepository{s: s},
	}
}

// window returns the sorted skip/limit window of items
func window[T any](items []T, less func(a, b T) bool, skip, limit int) []T {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
	start, end := helpers.SliceWindow(skip, limit, len(items))
	return items[start:end]
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.StudentID != nil {
		sid := *u.StudentID
		c.StudentID = &sid
	}
	return &c
}

func cloneCourse(c *models.Course) *models.Course {
	out := *c
	return &out
}

func cloneExam(e *models.Exam) *models.Exam {
	out := *e
	if e.Description != nil {
		d := *e.Description
		out.Description = &d
	}
	return &out
}

func cloneBooking(b *models.Booking) *models.Booking {
	out := *b
	return &out
}

// deleteExamLocked removes an exam and its bookings; s.mu must be held
func (s *Store) deleteExamLocked(examID int64) {
	delete(s.exams, examID)
	for id, b := range s.bookings {
		if b.ExamID == examID {
			delete(s.bookings, id)
		}
	}
}
