package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

func TestCreateExamValidations(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	course := e.course("CS101", e.user("prof@uni.test", models.RoleProfessor).ID)

	tests := []struct {
		name string
		req  dto.CreateExamRequest
		want error
	}{
		{"unknown course", dto.CreateExamRequest{CourseID: 999, Date: e.now.Add(time.Hour), Location: "A", MaxStudents: 1}, apperrors.ErrNotFound},
		{"past date", dto.CreateExamRequest{CourseID: course.ID, Date: e.now.Add(-time.Hour), Location: "A", MaxStudents: 1}, apperrors.ErrValidationFailed},
		{"zero capacity", dto.CreateExamRequest{CourseID: course.ID, Date: e.now.Add(time.Hour), Location: "A", MaxStudents: 0}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.svc.ExamService.CreateExam(ctx, &tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	ex, err := e.svc.ExamService.CreateExam(ctx, &dto.CreateExamRequest{CourseID: course.ID, Date: e.now.Add(time.Hour), Location: "A", MaxStudents: 3})
	if err != nil || !ex.IsActive {
		t.Fatalf("exam should default to active: %+v, %v", ex, err)
	}
}

func TestUpdateExamCapacityFloor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, 3)
	for _, email := range []string{"a@uni.test", "b@uni.test"} {
		s := e.user(email, models.RoleStudent)
		if _, err := e.svc.BookingService.CreateBooking(ctx, s.ID, ex.ID); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := e.svc.ExamService.UpdateExam(ctx, ex.ID, &dto.UpdateExamRequest{MaxStudents: intPtr(1)}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("shrinking below confirmed: got %v", err)
	}

	updated, err := e.svc.ExamService.UpdateExam(ctx, ex.ID, &dto.UpdateExamRequest{MaxStudents: intPtr(2), Location: strPtr("Hall B")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.MaxStudents != 2 || updated.Location != "Hall B" || updated.CourseID != ex.CourseID {
		t.Fatalf("update not applied: %+v", updated)
	}

	past := e.now.Add(-time.Hour)
	if _, err := e.svc.ExamService.UpdateExam(ctx, ex.ID, &dto.UpdateExamRequest{Date: &past}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("past date: got %v", err)
	}
	if _, err := e.svc.ExamService.UpdateExam(ctx, 999, &dto.UpdateExamRequest{}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown exam: got %v", err)
	}
}

func TestExamListings(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	course := e.course("CS101", prof.ID)
	soon := e.exam(course.ID, time.Hour, 3)
	later := e.exam(course.ID, 48*time.Hour, 3)

	e.now = e.now.Add(2 * time.Hour)
	upcoming, err := e.svc.ExamService.ListUpcomingByCourse(ctx, course.ID, 0, 10)
	if err != nil || len(upcoming) != 1 || upcoming[0].ID != later.ID {
		t.Fatalf("ListUpcomingByCourse = %+v, %v", upcoming, err)
	}
	all, _ := e.svc.ExamService.ListByCourse(ctx, course.ID, 0, 10)
	if len(all) != 2 || all[0].ID != soon.ID {
		t.Fatalf("ListByCourse = %+v", all)
	}
	active, _ := e.svc.ExamService.ListActiveExams(ctx, 0, 10)
	if len(active) != 1 {
		t.Fatalf("ListActiveExams returned %d", len(active))
	}
	if _, err := e.svc.ExamService.ListByCourse(ctx, 999, 0, 10); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown course: got %v", err)
	}
}
