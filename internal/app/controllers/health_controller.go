package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/middleware"
	"github.com/yigit/exambook/internal/pkg/apperrors"
)

// Pinger checks the storage backend
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service health
type HealthController struct {
	driver string
	db     Pinger
}

// NewHealthController creates a new HealthController. db may be nil for the in-memory store.
func NewHealthController(driver string, db Pinger) *HealthController {
	return &HealthController{driver: driver, db: db}
}

// Health reports whether the storage backend answers
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Failure 500 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewCustomError(err, "Database unreachable"))
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "ok", Database: c.driver}, ""))
}
