package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/repositories/memory"
	"github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/config"
	"github.com/yigit/exambook/internal/pkg/auth"
)

func TestCreateDefaultData(t *testing.T) {
	auth.BcryptCost = 4
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	userService := services.NewUserService(repos.UserRepository, repos.CourseRepository, zerolog.Nop())

	cfg := &config.Config{}
	cfg.Seed.AdminEmail = "admin@exambook.local"
	cfg.Seed.AdminFirstName = "System"
	cfg.Seed.AdminLastName = "Administrator"

	// no password configured
	if err := CreateDefaultData(ctx, cfg, repos.UserRepository, userService, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	if users, _ := repos.UserRepository.List(ctx, 0, 10); len(users) != 0 {
		t.Fatalf("seeded without password: %d users", len(users))
	}

	cfg.Seed.AdminPassword = "change-me-now"
	for i := 0; i < 2; i++ {
		if err := CreateDefaultData(ctx, cfg, repos.UserRepository, userService, zerolog.Nop()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	users, err := repos.UserRepository.List(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Role != models.RoleAdmin {
		t.Fatalf("expected exactly one admin, got %+v", users)
	}
	if !auth.CheckPassword(users[0].Password, "change-me-now") {
		t.Fatal("admin password mismatch")
	}
}
