package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/auth"
)

func TestCreateUserUniqueness(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first, err := e.svc.UserService.CreateUser(ctx, &dto.RegisterRequest{
		Email: "Ada@Uni.test", Password: "password123", FirstName: "Ada", LastName: "L", StudentID: strPtr("S-1"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Role != models.RoleStudent || first.Email != "ada@uni.test" {
		t.Fatalf("defaults not applied: %+v", first)
	}
	if first.Password == "password123" || !auth.CheckPassword(first.Password, "password123") {
		t.Fatal("password was not hashed")
	}

	tests := []struct {
		name  string
		req   dto.RegisterRequest
		field string
	}{
		{"email", dto.RegisterRequest{Email: "ada@uni.test", Password: "password123", FirstName: "A", LastName: "B"}, "email"},
		{"student id", dto.RegisterRequest{Email: "bob@uni.test", Password: "password123", FirstName: "A", LastName: "B", StudentID: strPtr("S-1")}, "student_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.UserService.CreateUser(ctx, &tt.req)
			var ce *apperrors.CustomError
			if !errors.Is(err, apperrors.ErrUniqueViolation) || !errors.As(err, &ce) || ce.Details["field"] != tt.field {
				t.Fatalf("got %v", err)
			}
		})
	}

	if _, err := e.svc.UserService.CreateUser(ctx, &dto.RegisterRequest{Email: "c@uni.test", Password: "short", FirstName: "A", LastName: "B"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("short password: got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	a := e.user("a@uni.test", models.RoleStudent)
	e.user("b@uni.test", models.RoleStudent)

	// unchanged email is not reported as a conflict with itself
	if _, err := e.svc.UserService.UpdateUser(ctx, a.ID, &dto.UpdateUserRequest{Email: strPtr("a@uni.test"), FirstName: strPtr("Alice")}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.UserService.UpdateUser(ctx, a.ID, &dto.UpdateUserRequest{Email: strPtr("b@uni.test")}); !errors.Is(err, apperrors.ErrUniqueViolation) {
		t.Fatalf("taken email: got %v", err)
	}

	updated, err := e.svc.UserService.UpdateUser(ctx, a.ID, &dto.UpdateUserRequest{Password: strPtr("newpassword1")})
	if err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(updated.Password, "newpassword1") || updated.FirstName != "Alice" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := e.svc.UserService.UpdateUser(ctx, 999, &dto.UpdateUserRequest{}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	prof := e.user("prof@uni.test", models.RoleProfessor)
	student := e.user("stud@uni.test", models.RoleStudent)
	ex := e.exam(e.course("CS101", prof.ID).ID, 24*time.Hour, 5)
	b, err := e.svc.BookingService.CreateBooking(ctx, student.ID, ex.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.svc.UserService.DeleteUser(ctx, prof.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("professor with courses: got %v", err)
	}
	if _, err := e.svc.UserService.DeleteUser(ctx, student.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.BookingService.GetBooking(ctx, b.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("booking survived student delete: %v", err)
	}
}
