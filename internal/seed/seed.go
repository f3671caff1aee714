package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	appRepos "github.com/yigit/exambook/internal/app/repositories"
	appServices "github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/config"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// CreateDefaultData creates the default admin account if no user owns the configured admin email.
// A missing admin password disables seeding.
func CreateDefaultData(ctx context.Context, cfg *config.Config, userRepo appRepos.IUserRepository, userService *appServices.UserService, lgr zerolog.Logger) error {
	email := cfg.Seed.AdminEmail
	if email == "" || cfg.Seed.AdminPassword == "" {
		lgr.Warn().Msg("Admin seed credentials not configured, skipping default admin creation")
		return nil
	}

	lgr.Info().Str("email", email).Msg("Checking default admin user...")

	_, err := userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	admin, err := userService.CreateUser(ctx, &dto.RegisterRequest{
		Email:     email,
		Password:  cfg.Seed.AdminPassword,
		FirstName: cfg.Seed.AdminFirstName,
		LastName:  cfg.Seed.AdminLastName,
		Role:      appModels.RoleAdmin,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
