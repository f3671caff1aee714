package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/middleware"
	"github.com/yigit/exambook/internal/pkg/websocket"
)

// SeatSource reports the confirmed count and capacity of an exam
type SeatSource interface {
	SeatAvailability(ctx context.Context, examID int64) (confirmed, maxStudents int, err error)
}

// SeatFeedController streams live seat availability over WebSocket
type SeatFeedController struct {
	hub    *websocket.Hub
	seats  SeatSource
	logger zerolog.Logger
}

// NewSeatFeedController creates a new SeatFeedController
func NewSeatFeedController(hub *websocket.Hub, seats SeatSource, logger zerolog.Logger) *SeatFeedController {
	return &SeatFeedController{hub: hub, seats: seats, logger: logger}
}

// WatchSeats upgrades the connection and pushes the seat count of an exam
// every time a booking for it changes. The first message is the current count.
// @Summary Live seat availability
// @Tags exams
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 101 {object} websocket.SeatUpdate "Switching protocols"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/seats/ws [get]
func (c *SeatFeedController) WatchSeats(ctx *gin.Context) {
	examID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	confirmed, maxStudents, err := c.seats.SeatAvailability(ctx.Request.Context(), examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	caller := middleware.CurrentUser(ctx)
	initial := websocket.NewSeatUpdate(examID, confirmed, maxStudents)
	if err := websocket.Serve(c.hub, ctx.Writer, ctx.Request, caller.ID, initial); err != nil {
		// The upgrader has already written the HTTP error
		c.logger.Warn().Err(err).Int64("examID", examID).Msg("WebSocket upgrade failed")
	}
}
