package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo    repositories.IUserRepository
	userService *UserService
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	userService *UserService,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		userService: userService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

func invalidCredentials() error {
	return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Incorrect email or password")
}

// Authenticate checks an email/password pair. Unknown emails still pay for a
// bcrypt comparison so both failure paths take the same time.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, invalidCredentials()
	}
	return user, nil
}

// IssueToken signs a bearer token for userID; ttl <= 0 uses the configured lifetime
func (s *AuthService) IssueToken(userID int64, ttl time.Duration) (string, error) {
	return s.jwtService.GenerateToken(userID, ttl)
}

// VerifyToken returns the user id carried by a valid token
func (s *AuthService) VerifyToken(token string) (int64, error) {
	return s.jwtService.ValidateToken(token)
}

// Login authenticates and issues a token with the configured lifetime
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info().Str("email", normalizeEmail(email)).Msg("Login rejected")
		return nil, err
	}

	token, err := s.IssueToken(user.ID, s.jwtService.AccessTokenTTL())
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Register creates an account through the public endpoint. Admin accounts
// can only be created by an admin.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, caller *models.User) (*models.User, error) {
	if req.Role == models.RoleAdmin && !caller.HasRole(models.RoleAdmin) {
		return nil, apperrors.NewForbiddenError("Only administrators can create administrator accounts")
	}
	return s.userService.CreateUser(ctx, req)
}
