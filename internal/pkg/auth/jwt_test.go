package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yigit/exambook/internal/pkg/apperrors"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "exambook.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(42, 0)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	userID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestJWTService()
	valid, err := svc.GenerateToken(7, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	otherSecret := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "exambook.test"})
	forged, err := otherSecret.GenerateToken(7, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	otherIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "someone.else"})
	foreign, err := otherIssuer.GenerateToken(7, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"wrong issuer", foreign},
		{"tampered payload", tampered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			if !errors.Is(err, apperrors.ErrTokenInvalid) {
				t.Fatalf("expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestJWTService()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(3, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
	if !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expired token must also be an invalid token, got %v", err)
	}
}

func TestGenerateTokenRejectsNonPositiveUser(t *testing.T) {
	if _, err := newTestJWTService().GenerateToken(0, time.Minute); err == nil {
		t.Fatal("expected error for user id 0")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc", "abc", false},
		{"  Bearer   abc  ", "abc", false},
		{"", "", true},
		{"Basic abc", "", true},
		{"Bearer", "", true},
		{"abc.def.ghi", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ExtractBearerToken(%q) err = %v, wantErr %v", tt.header, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "Secret123") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "secret123") {
		t.Fatal("expected mismatch for different password")
	}
	BurnPasswordCheck("anything")
}
