package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/repositories/memory"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	pkgauth "github.com/yigit/exambook/internal/pkg/auth"
)

func TestAuthorizeMatrix(t *testing.T) {
	admin := &models.User{ID: 1, Role: models.RoleAdmin}
	prof := &models.User{ID: 2, Role: models.RoleProfessor}
	student := &models.User{ID: 3, Role: models.RoleStudent}

	tests := []struct {
		name   string
		user   *models.User
		cap    Capability
		target int64
		allow  bool
	}{
		{"admin admin", admin, CapAdmin, 0, true},
		{"admin prof-or-admin", admin, CapProfessorOrAdmin, 0, true},
		{"admin acting on other", admin, CapSelfOrAdmin, 3, true},
		{"prof admin", prof, CapAdmin, 0, false},
		{"prof prof-or-admin", prof, CapProfessorOrAdmin, 0, true},
		{"prof self", prof, CapSelfOrAdmin, 2, true},
		{"prof other", prof, CapSelfOrAdmin, 3, false},
		{"student authenticated", student, CapAuthenticated, 0, true},
		{"student prof-or-admin", student, CapProfessorOrAdmin, 0, false},
		{"student admin", student, CapAdmin, 0, false},
		{"student self", student, CapSelfOrAdmin, 3, true},
		{"student other", student, CapSelfOrAdmin, 4, false},
		{"unknown role", &models.User{ID: 9, Role: "guest"}, CapAuthenticated, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.user, tt.cap, tt.target)
			if tt.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tt.allow && !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}

	if err := Authorize(nil, CapAuthenticated, 0); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("nil user: got %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	user := &models.User{Email: "a@uni.test", Role: models.RoleStudent}
	if err := repos.UserRepository.Create(ctx, user); err != nil {
		t.Fatal(err)
	}

	jwtSvc := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "exambook.test"})
	gate := NewAuthorizationService(jwtSvc, repos.UserRepository)

	token, err := jwtSvc.GenerateToken(user.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := gate.ResolveUser(ctx, token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("ResolveUser = %v, %v", got, err)
	}

	if _, err := gate.ResolveUser(ctx, "garbage"); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("garbage token: got %v", err)
	}

	ghost, _ := jwtSvc.GenerateToken(user.ID+100, 0)
	if _, err := gate.ResolveUser(ctx, ghost); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("token for missing user: got %v", err)
	}
}
