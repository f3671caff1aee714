package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

func TestCreateBookingChecks(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	course := e.course("CS101", prof.ID)
	open := e.exam(course.ID, 24*time.Hour, 10)

	inactive := e.exam(course.ID, 24*time.Hour, 10)
	if _, err := e.svc.ExamService.UpdateExam(ctx, inactive.ID, &dto.UpdateExamRequest{IsActive: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	soon := e.exam(course.ID, time.Minute, 10)

	tests := []struct {
		name      string
		studentID int64
		examID    int64
		want      error
		advance   time.Duration
	}{
		{"unknown student", 9999, open.ID, apperrors.ErrNotFound, 0},
		{"professor is not a student", prof.ID, open.ID, apperrors.ErrInvalidRole, 0},
		{"unknown exam", student.ID, 9999, apperrors.ErrNotFound, 0},
		{"inactive exam", student.ID, inactive.ID, apperrors.ErrExamInactive, 0},
		{"exam already passed", student.ID, soon.ID, apperrors.ErrExamPassed, time.Hour},
		{"admitted", student.ID, open.ID, nil, 0},
		{"second booking is duplicate", student.ID, open.ID, apperrors.ErrDuplicateBooking, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.now = testNow.Add(tt.advance)
			defer func() { e.now = testNow }()

			b, err := e.svc.BookingService.CreateBooking(ctx, tt.studentID, tt.examID)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !b.Confirmed || b.StudentID != tt.studentID || b.ExamID != tt.examID {
					t.Fatalf("unexpected booking %+v", b)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExamDateEqualToNowHasPassed(t *testing.T) {
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	ex := e.exam(e.course("CS101", prof.ID).ID, time.Hour, 5)

	e.now = ex.Date
	_, err := e.svc.BookingService.CreateBooking(context.Background(), student.ID, ex.ID)
	if !errors.Is(err, apperrors.ErrExamPassed) {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicateReportedBeforeFull(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	a := e.user("a@uni.test", models.RoleStudent)
	b := e.user("b@uni.test", models.RoleStudent)
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, 1)

	if _, err := e.svc.BookingService.CreateBooking(ctx, a.ID, ex.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.BookingService.CreateBooking(ctx, a.ID, ex.ID); !errors.Is(err, apperrors.ErrDuplicateBooking) {
		t.Fatalf("rebooking full exam: got %v, want duplicate", err)
	}
	if _, err := e.svc.BookingService.CreateBooking(ctx, b.ID, ex.ID); !errors.Is(err, apperrors.ErrExamFull) {
		t.Fatalf("other student on full exam: got %v, want full", err)
	}
}

func TestUnconfirmedBookingsDoNotConsumeCapacity(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	a := e.user("a@uni.test", models.RoleStudent)
	b := e.user("b@uni.test", models.RoleStudent)
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, 1)

	first, err := e.svc.BookingService.CreateBooking(ctx, a.ID, ex.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.BookingService.UpdateBooking(ctx, first.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.BookingService.CreateBooking(ctx, b.ID, ex.ID); err != nil {
		t.Fatalf("seat released by unconfirmed booking not available: %v", err)
	}

	// re-confirming would overrun capacity
	if _, err := e.svc.BookingService.UpdateBooking(ctx, first.ID, true); !errors.Is(err, apperrors.ErrExamFull) {
		t.Fatalf("got %v, want full", err)
	}

	count, err := e.svc.BookingService.CountConfirmedByExam(ctx, ex.ID)
	if err != nil || count != 1 {
		t.Fatalf("count = %d, %v", count, err)
	}
}

func TestConcurrentAdmissionsNeverOverrunCapacity(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	const capacity, contenders = 5, 40
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, capacity)

	students := make([]*models.User, contenders)
	for i := range students {
		students[i] = e.user(fmt.Sprintf("s%d@uni.test", i), models.RoleStudent)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		full     int
	)
	start := make(chan struct{})
	for _, s := range students {
		wg.Add(2)
		// every student races twice to exercise the duplicate path as well
		for j := 0; j < 2; j++ {
			go func(id int64) {
				defer wg.Done()
				<-start
				_, err := e.svc.BookingService.CreateBooking(ctx, id, ex.ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					admitted++
				case errors.Is(err, apperrors.ErrExamFull):
					full++
				case errors.Is(err, apperrors.ErrDuplicateBooking):
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(s.ID)
		}
	}
	close(start)
	wg.Wait()

	if admitted != capacity {
		t.Fatalf("admitted %d, want exactly %d", admitted, capacity)
	}
	count, _ := e.svc.BookingService.CountConfirmedByExam(ctx, ex.ID)
	if count != capacity {
		t.Fatalf("confirmed count %d, want %d", count, capacity)
	}
	if full == 0 {
		t.Fatal("expected some admissions to be refused as full")
	}
}

func TestCourseScenarioDuplicateBooking(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("rossi@uni.test", models.RoleProfessor)
	student := e.user("bianchi@uni.test", models.RoleStudent)
	course := e.course("CS101", prof.ID)
	ex := e.exam(course.ID, 7*24*time.Hour, 30)

	if _, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID); err != nil {
		t.Fatal(err)
	}
	_, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID)
	if !errors.Is(err, apperrors.ErrDuplicateBooking) {
		t.Fatalf("got %v", err)
	}

	bookings, err := e.svc.BookingService.ListByStudent(ctx, student.ID, 0, 100)
	if err != nil || len(bookings) != 1 {
		t.Fatalf("student has %d bookings (%v), want 1", len(bookings), err)
	}
}

func TestCancelAndDeleteBooking(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, 3)

	if err := e.svc.BookingService.CancelBooking(ctx, student.ID, ex.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("cancel without booking: got %v", err)
	}

	if _, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.svc.BookingService.CancelBooking(ctx, student.ID, ex.ID); err != nil {
		t.Fatal(err)
	}

	b, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID)
	if err != nil {
		t.Fatalf("rebooking after cancel: %v", err)
	}
	if _, err := e.svc.BookingService.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.BookingService.GetBooking(ctx, b.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("deleted booking still readable: %v", err)
	}
}

func TestListingsRequireExistingParents(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	if _, err := e.svc.BookingService.ListByStudent(ctx, 42, 0, 10); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("ListByStudent: %v", err)
	}
	if _, err := e.svc.BookingService.ListByExam(ctx, 42, 0, 10); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("ListByExam: %v", err)
	}
	if _, err := e.svc.BookingService.CountConfirmedByExam(ctx, 42); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("CountConfirmedByExam: %v", err)
	}
	if _, err := e.svc.BookingService.UpdateBooking(ctx, 42, true); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("UpdateBooking: %v", err)
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	updates [][3]int64
}

func (r *recordingNotifier) PublishSeats(examID int64, confirmed, maxStudents int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, [3]int64{examID, int64(confirmed), int64(maxStudents)})
}

func TestSeatNotifications(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	n := &recordingNotifier{}
	e.svc.BookingService.SetSeatNotifier(n)

	prof := e.user("prof@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, 3)

	b, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID); err == nil {
		t.Fatal("expected duplicate")
	}
	if _, err := e.svc.BookingService.UpdateBooking(ctx, b.ID, false); err != nil {
		t.Fatal(err)
	}
	if err := e.svc.BookingService.CancelBooking(ctx, student.ID, ex.ID); err != nil {
		t.Fatal(err)
	}

	want := [][3]int64{{ex.ID, 1, 3}, {ex.ID, 0, 3}, {ex.ID, 0, 3}}
	if len(n.updates) != len(want) {
		t.Fatalf("got %d updates %v, want %v", len(n.updates), n.updates, want)
	}
	for i := range want {
		if n.updates[i] != want[i] {
			t.Fatalf("update %d = %v, want %v", i, n.updates[i], want[i])
		}
	}

	confirmed, maxStudents, err := e.svc.BookingService.SeatAvailability(ctx, ex.ID)
	if err != nil || confirmed != 0 || maxStudents != 3 {
		t.Fatalf("SeatAvailability = %d, %d, %v", confirmed, maxStudents, err)
	}
	if _, _, err := e.svc.BookingService.SeatAvailability(ctx, 9999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown exam: %v", err)
	}
}
