package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/logger"
)

// errorMapping binds a sentinel to its HTTP status and error code
type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: more specific sentinels come first
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrDuplicateBooking, http.StatusBadRequest, dto.ErrorCodeDuplicateBooking, "Student is already booked for this exam"},
	{apperrors.ErrExamInactive, http.StatusBadRequest, dto.ErrorCodeExamInactive, "Exam is not active"},
	{apperrors.ErrExamPassed, http.StatusBadRequest, dto.ErrorCodeExamPassed, "Exam date has already passed"},
	{apperrors.ErrExamFull, http.StatusBadRequest, dto.ErrorCodeExamFull, "Exam has no seats left"},
	{apperrors.ErrInvalidRole, http.StatusBadRequest, dto.ErrorCodeInvalidRole, "Invalid role for this operation"},
	{apperrors.ErrUniqueViolation, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Incorrect email or password"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token has expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Could not validate credentials"},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Not authenticated"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceConflict, "Conflict"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var errorDetail *dto.ErrorDetail

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			status = m.status
			errorDetail = dto.NewErrorDetail(m.code, m.message)
			break
		}
	}

	if errorDetail == nil {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		errorDetail = dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		c.JSON(status, dto.NewErrorResponse(errorDetail))
		return
	}

	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		if ce.Message != "" {
			errorDetail.Message = ce.Message
		}
		if field, ok := ce.Details["field"].(string); ok {
			errorDetail.WithField(field)
		}
		if ce.Code == "TOKEN_EXPIRED" {
			errorDetail.Code = dto.ErrorCodeExpiredToken
		}
	}

	if status < http.StatusInternalServerError {
		errorDetail.WithSeverity(dto.ErrorSeverityWarning)
	}
	if status == http.StatusUnauthorized && isAuthError(err) {
		c.Header("WWW-Authenticate", "Bearer")
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
