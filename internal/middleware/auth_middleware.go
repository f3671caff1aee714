package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/auth"
	"github.com/yigit/exambook/internal/app/models"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	pkgauth "github.com/yigit/exambook/internal/pkg/auth"
)

const currentUserKey = "currentUser"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authz *auth.AuthorizationService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authz *auth.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		authz: authz,
	}
}

// CurrentUser returns the user resolved by JWTAuth or OptionalAuth
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*models.User, error) {
	header := c.GetHeader("Authorization")
	// Browsers can not set headers on a WebSocket handshake
	if header == "" && c.IsWebsocket() {
		if queryToken := c.Query("token"); queryToken != "" {
			return m.authz.ResolveUser(c.Request.Context(), queryToken)
		}
	}

	token, err := pkgauth.ExtractBearerToken(header)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthenticated, "Not authenticated")
	}
	return m.authz.ResolveUser(c.Request.Context(), token)
}

// JWTAuth resolves the bearer token into a user and stores it on the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present and
// continues anonymously otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, err := m.resolve(c); err == nil {
				c.Set(currentUserKey, user)
				c.Set("userID", user.ID)
			}
		}
		c.Next()
	}
}

// RequireCapability checks a capability that does not depend on a target user
func (m *AuthMiddleware) RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.authz.Authorize(CurrentUser(c), capability, 0); err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin checks that the user id in the path parameter is the caller or the caller is an admin
func (m *AuthMiddleware) RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || targetID <= 0 {
			abortInvalidID(c, param)
			return
		}
		if err := m.authz.Authorize(CurrentUser(c), auth.CapSelfOrAdmin, targetID); err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortInvalidID(c *gin.Context, param string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
		WithField(param).
		WithDetails(param + " must be a positive integer")
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// isAuthError reports whether err should be answered with a bearer challenge
func isAuthError(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthenticated) ||
		errors.Is(err, apperrors.ErrTokenInvalid) ||
		errors.Is(err, apperrors.ErrInvalidCredentials)
}
