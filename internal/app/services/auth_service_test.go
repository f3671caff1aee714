package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.user("ada@uni.test", models.RoleStudent)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "ada@uni.test", "password123", nil},
		{"email is case insensitive", "  ADA@uni.test ", "password123", nil},
		{"wrong password", "ada@uni.test", "password124", apperrors.ErrInvalidCredentials},
		{"unknown email", "nobody@uni.test", "password123", apperrors.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := e.svc.AuthService.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if tok.TokenType != "bearer" || tok.AccessToken == "" {
				t.Fatalf("unexpected token response %+v", tok)
			}
			id, err := e.svc.AuthService.VerifyToken(tok.AccessToken)
			if err != nil || id != user.ID {
				t.Fatalf("VerifyToken = %d, %v", id, err)
			}
		})
	}
}

func TestRegisterAdminRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	req := &dto.RegisterRequest{Email: "root@uni.test", Password: "password123", FirstName: "R", LastName: "R", Role: models.RoleAdmin}

	if _, err := e.svc.AuthService.Register(ctx, req, nil); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("anonymous admin registration: got %v", err)
	}

	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	u, err := e.svc.AuthService.Register(ctx, req, admin)
	if err != nil || u.Role != models.RoleAdmin {
		t.Fatalf("admin created admin: %v, %v", u, err)
	}
}
