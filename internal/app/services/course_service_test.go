package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

func TestCreateCourseValidations(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	e.course("CS101", prof.ID)

	tests := []struct {
		name string
		req  dto.CreateCourseRequest
		want error
	}{
		{"duplicate code", dto.CreateCourseRequest{Name: "X", Code: "CS101", Credits: 6, ProfessorID: prof.ID}, apperrors.ErrUniqueViolation},
		{"unknown professor", dto.CreateCourseRequest{Name: "X", Code: "CS102", Credits: 6, ProfessorID: 999}, apperrors.ErrNotFound},
		{"student as professor", dto.CreateCourseRequest{Name: "X", Code: "CS102", Credits: 6, ProfessorID: student.ID}, apperrors.ErrInvalidRole},
		{"zero credits", dto.CreateCourseRequest{Name: "X", Code: "CS102", Credits: 0, ProfessorID: prof.ID}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.svc.CourseService.CreateCourse(ctx, &tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	other := e.user("other@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	c1 := e.course("CS101", prof.ID)
	e.course("CS102", prof.ID)

	if _, err := e.svc.CourseService.UpdateCourse(ctx, c1.ID, &dto.UpdateCourseRequest{Code: strPtr("CS102")}); !errors.Is(err, apperrors.ErrUniqueViolation) {
		t.Fatalf("taken code: got %v", err)
	}
	if _, err := e.svc.CourseService.UpdateCourse(ctx, c1.ID, &dto.UpdateCourseRequest{ProfessorID: &student.ID}); !errors.Is(err, apperrors.ErrInvalidRole) {
		t.Fatalf("student as professor: got %v", err)
	}

	updated, err := e.svc.CourseService.UpdateCourse(ctx, c1.ID, &dto.UpdateCourseRequest{Code: strPtr("CS101"), ProfessorID: &other.ID, Credits: intPtr(9)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ProfessorID != other.ID || updated.Credits != 9 {
		t.Fatalf("update not applied: %+v", updated)
	}

	list, err := e.svc.CourseService.ListByProfessor(ctx, other.ID, 0, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByProfessor = %d, %v", len(list), err)
	}
	if _, err := e.svc.CourseService.ListByProfessor(ctx, student.ID, 0, 10); !errors.Is(err, apperrors.ErrInvalidRole) {
		t.Fatalf("ListByProfessor student: got %v", err)
	}
}
