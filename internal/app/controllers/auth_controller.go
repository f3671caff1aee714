// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles the OAuth2 password flow
// @Summary Log in
// @Description Exchanges an email (sent as username) and password for a bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Account email"
// @Param password formData string true "Account password"
// @Success 200 {object} dto.TokenResponse "Bearer token"
// @Failure 400 {object} dto.ErrorResponse "Missing form fields"
// @Failure 401 {object} dto.ErrorResponse "Incorrect email or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var form dto.LoginForm
	if !middleware.BindForm(ctx, &form) {
		return
	}

	token, err := c.authService.Login(ctx.Request.Context(), form.Username, form.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, token)
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a new account. Only an authenticated admin can create admin accounts.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, email or student ID already registered"
// @Failure 403 {object} dto.ErrorResponse "Admin role requested by a non admin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Debug().Msg("Invalid registration request payload")
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req, middleware.CurrentUser(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewUserResponse(user), "User registered successfully"))
}
