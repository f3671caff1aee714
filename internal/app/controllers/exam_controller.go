package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/middleware"
	"github.com/yigit/exambook/internal/pkg/helpers"
)

// ExamController handles exam session endpoints
type ExamController struct {
	examService *services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService *services.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// CreateExam schedules an exam
// @Summary Create exam
// @Description Professor or admin. The date must be in the future and max_students positive.
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExamRequest true "Exam information"
// @Success 201 {object} dto.APIResponse{data=dto.ExamResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, past date or non positive capacity"
// @Failure 403 {object} dto.ErrorResponse "Professor or admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req dto.CreateExamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	exam, err := c.examService.CreateExam(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewExamResponse(exam), "Exam created successfully"))
}

// ListExams lists exams
// @Summary List exams
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	skip, limit := helpers.ParseSkipLimit(ctx)
	exams, err := c.examService.ListExams(ctx.Request.Context(), skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamListResponse(exams), ""))
}

// ListActiveExams lists active exams that have not taken place yet
// @Summary List active upcoming exams
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Router /exams/active [get]
func (c *ExamController) ListActiveExams(ctx *gin.Context) {
	skip, limit := helpers.ParseSkipLimit(ctx)
	exams, err := c.examService.ListActiveExams(ctx.Request.Context(), skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamListResponse(exams), ""))
}

// GetExam returns an exam
// @Summary Get exam by ID
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResponse}
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.GetExam(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamResponse(exam), ""))
}

// ListByCourse lists the exams of a course
// @Summary List exams of a course
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /exams/course/{id} [get]
func (c *ExamController) ListByCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	skip, limit := helpers.ParseSkipLimit(ctx)
	exams, err := c.examService.ListByCourse(ctx.Request.Context(), id, skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamListResponse(exams), ""))
}

// ListUpcomingByCourse lists the active future exams of a course
// @Summary List upcoming exams of a course
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /exams/course/{id}/upcoming [get]
func (c *ExamController) ListUpcomingByCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	skip, limit := helpers.ParseSkipLimit(ctx)
	exams, err := c.examService.ListUpcomingByCourse(ctx.Request.Context(), id, skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamListResponse(exams), ""))
}

// UpdateExam updates an exam
// @Summary Update exam
// @Description Professor or admin. max_students can not drop below the confirmed bookings.
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateExamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	exam, err := c.examService.UpdateExam(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamResponse(exam), "Exam updated successfully"))
}

// DeleteExam deletes an exam and its bookings
// @Summary Delete exam
// @Description Professor or admin
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResponse} "Deleted exam"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.DeleteExam(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewExamResponse(exam), "Exam deleted successfully"))
}
