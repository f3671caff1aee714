package auth

import (
	"context"
	"errors"

	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/logger"
)

// Capability names a permission checked per request
type Capability int

const (
	// CapAuthenticated admits any resolved user
	CapAuthenticated Capability = iota
	// CapAdmin admits admins only
	CapAdmin
	// CapProfessorOrAdmin admits professors and admins
	CapProfessorOrAdmin
	// CapSelfOrAdmin admits the target user itself and admins
	CapSelfOrAdmin
)

func (c Capability) String() string {
	switch c {
	case CapAuthenticated:
		return "authenticated"
	case CapAdmin:
		return "admin"
	case CapProfessorOrAdmin:
		return "professor_or_admin"
	case CapSelfOrAdmin:
		return "self_or_admin"
	default:
		return "unknown"
	}
}

// TokenVerifier turns a bearer token into a user id
type TokenVerifier interface {
	ValidateToken(token string) (int64, error)
}

// AuthorizationService resolves the caller of a request and checks capabilities
type AuthorizationService struct {
	tokens   TokenVerifier
	userRepo repositories.IUserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(tokens TokenVerifier, userRepo repositories.IUserRepository) *AuthorizationService {
	return &AuthorizationService{
		tokens:   tokens,
		userRepo: userRepo,
	}
}

// ResolveUser verifies the token and loads its user. An invalid token and a
// token whose user no longer exists both fail with ErrUnauthenticated.
func (s *AuthorizationService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.ValidateToken(token)
	if err != nil {
		code := "INVALID_TOKEN"
		if errors.Is(err, apperrors.ErrTokenExpired) {
			code = "TOKEN_EXPIRED"
		}
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Could not validate credentials").WithCode(code)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "User not found").WithCode("USER_GONE")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error loading user for token")
		return nil, err
	}
	return user, nil
}

// Authorize checks that user holds capability. targetID is the user the
// request acts on and is only consulted for CapSelfOrAdmin.
func Authorize(user *models.User, capability Capability, targetID int64) error {
	if user == nil {
		return apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Authentication required")
	}

	var allowed bool
	switch user.Role {
	case models.RoleAdmin:
		allowed = true
	case models.RoleProfessor:
		switch capability {
		case CapAuthenticated, CapProfessorOrAdmin:
			allowed = true
		case CapSelfOrAdmin:
			allowed = user.ID == targetID
		case CapAdmin:
			allowed = false
		}
	case models.RoleStudent:
		switch capability {
		case CapAuthenticated:
			allowed = true
		case CapSelfOrAdmin:
			allowed = user.ID == targetID
		case CapAdmin, CapProfessorOrAdmin:
			allowed = false
		}
	default:
		allowed = false
	}

	if !allowed {
		return apperrors.NewForbiddenError("Insufficient permissions")
	}
	return nil
}

// Authorize is a convenience wrapper around the package level Authorize
func (s *AuthorizationService) Authorize(user *models.User, capability Capability, targetID int64) error {
	return Authorize(user, capability, targetID)
}
