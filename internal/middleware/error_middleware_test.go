package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/pkg/apperrors"
	"github.com/yigit/exambook/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Configure(logger.Config{Level: logger.DisabledLevel})
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      dto.ErrorCode
		field     string
		challenge bool
	}{
		{"not found", apperrors.NewNotFoundError("Exam not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "", false},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "", false},
		{"duplicate booking", apperrors.ErrDuplicateBooking, http.StatusBadRequest, dto.ErrorCodeDuplicateBooking, "", false},
		{"exam inactive", apperrors.ErrExamInactive, http.StatusBadRequest, dto.ErrorCodeExamInactive, "", false},
		{"exam passed", apperrors.ErrExamPassed, http.StatusBadRequest, dto.ErrorCodeExamPassed, "", false},
		{"exam full", apperrors.ErrExamFull, http.StatusBadRequest, dto.ErrorCodeExamFull, "", false},
		{"invalid role", apperrors.NewInvalidRoleError("not a student"), http.StatusBadRequest, dto.ErrorCodeInvalidRole, "", false},
		{"unique violation", apperrors.NewUniqueViolationError("code", "taken"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "code", false},
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "", false},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "", true},
		{"expired", apperrors.NewCustomError(apperrors.ErrUnauthenticated, "x").WithCode("TOKEN_EXPIRED"), http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "", true},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "", true},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden, "", false},
		{"conflict", apperrors.NewConflictError("busy"), http.StatusConflict, dto.ErrorCodeResourceConflict, "", false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code || resp.Error.Field != tt.field {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
			if got := w.Header().Get("WWW-Authenticate") == "Bearer"; got != tt.challenge {
				t.Fatalf("bearer challenge = %v, want %v", got, tt.challenge)
			}
		})
	}
}
