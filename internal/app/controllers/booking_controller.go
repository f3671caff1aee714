package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/auth"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/middleware"
	"github.com/yigit/exambook/internal/pkg/helpers"
)

// BookingController handles exam booking endpoints
type BookingController struct {
	bookingService *services.BookingService
}

// NewBookingController creates a new BookingController
func NewBookingController(bookingService *services.BookingService) *BookingController {
	return &BookingController{bookingService: bookingService}
}

// CreateBooking books a seat for a student
// @Summary Book an exam
// @Description student_id defaults to the caller; booking for another student requires admin.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Booking information"
// @Success 201 {object} dto.APIResponse{data=dto.BookingResponse}
// @Failure 400 {object} dto.ErrorResponse "Not a student, exam inactive or passed, already booked or full"
// @Failure 403 {object} dto.ErrorResponse "Booking for another student"
// @Failure 404 {object} dto.ErrorResponse "Student or exam not found"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(ctx *gin.Context) {
	var req dto.CreateBookingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	caller := middleware.CurrentUser(ctx)
	studentID := caller.ID
	if req.StudentID != nil {
		studentID = *req.StudentID
	}
	if err := auth.Authorize(caller, auth.CapSelfOrAdmin, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	booking, err := c.bookingService.CreateBooking(ctx.Request.Context(), studentID, req.ExamID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewBookingResponse(booking), "Booking created successfully"))
}

// ListBookings lists bookings
// @Summary List bookings
// @Description Admin only
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.BookingResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /bookings [get]
func (c *BookingController) ListBookings(ctx *gin.Context) {
	skip, limit := helpers.ParseSkipLimit(ctx)
	bookings, err := c.bookingService.ListBookings(ctx.Request.Context(), skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewBookingListResponse(bookings), ""))
}

// GetBooking returns a booking
// @Summary Get booking by ID
// @Description Owner or admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookingResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner and not an admin"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /bookings/{id} [get]
func (c *BookingController) GetBooking(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.bookingService.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := auth.Authorize(middleware.CurrentUser(ctx), auth.CapSelfOrAdmin, booking.StudentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewBookingResponse(booking), ""))
}

// ListByStudent lists the bookings of a student
// @Summary List bookings of a student
// @Description Self or admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.BookingResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the same user and not an admin"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /bookings/student/{id} [get]
func (c *BookingController) ListByStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	skip, limit := helpers.ParseSkipLimit(ctx)
	bookings, err := c.bookingService.ListByStudent(ctx.Request.Context(), id, skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewBookingListResponse(bookings), ""))
}

// ListByExam lists the bookings of an exam
// @Summary List bookings of an exam
// @Description Professor or admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.BookingResponse}
// @Failure 403 {object} dto.ErrorResponse "Professor or admin role required"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /bookings/exam/{id} [get]
func (c *BookingController) ListByExam(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	skip, limit := helpers.ParseSkipLimit(ctx)
	bookings, err := c.bookingService.ListByExam(ctx.Request.Context(), id, skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewBookingListResponse(bookings), ""))
}

// CountByExam counts the confirmed bookings of an exam
// @Summary Count confirmed bookings of an exam
// @Description Professor or admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /bookings/exam/{id}/count [get]
func (c *BookingController) CountByExam(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	count, err := c.bookingService.CountConfirmedByExam(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{Count: count}, ""))
}

// UpdateBooking changes the confirmation of a booking
// @Summary Update booking
// @Description Admin only. Confirming a booking requires a free seat.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Confirmation state"
// @Success 200 {object} dto.APIResponse{data=dto.BookingResponse}
// @Failure 400 {object} dto.ErrorResponse "Exam full"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /bookings/{id} [put]
func (c *BookingController) UpdateBooking(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	booking, err := c.bookingService.UpdateBooking(ctx.Request.Context(), id, *req.Confirmed)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewBookingResponse(booking), "Booking updated successfully"))
}

// DeleteBooking deletes a booking
// @Summary Delete booking
// @Description Owner or admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} dto.APIResponse{data=dto.BookingResponse} "Deleted booking"
// @Failure 403 {object} dto.ErrorResponse "Not the owner and not an admin"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /bookings/{id} [delete]
func (c *BookingController) DeleteBooking(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.bookingService.GetBooking(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := auth.Authorize(middleware.CurrentUser(ctx), auth.CapSelfOrAdmin, booking.StudentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	deleted, err := c.bookingService.DeleteBooking(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewBookingResponse(deleted), "Booking deleted successfully"))
}

// CancelBooking cancels the booking of a student for an exam
// @Summary Cancel booking
// @Description Self or admin
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student user ID"
// @Param examId path int true "Exam ID"
// @Success 200 {object} dto.APIResponse "Booking cancelled"
// @Failure 403 {object} dto.ErrorResponse "Not the same user and not an admin"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /bookings/student/{id}/exam/{examId} [delete]
func (c *BookingController) CancelBooking(ctx *gin.Context) {
	studentID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	examID, ok := middleware.ParseIDParam(ctx, "examId")
	if !ok {
		return
	}

	if err := c.bookingService.CancelBooking(ctx.Request.Context(), studentID, examID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Booking cancelled successfully"))
}
