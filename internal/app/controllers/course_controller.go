package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/models/dto"
	"github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/middleware"
	"github.com/yigit/exambook/internal/pkg/helpers"
)

// CourseController handles course catalog endpoints
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse creates a course
// @Summary Create course
// @Description Admin only. The referenced user must be a professor.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, duplicated code or user is not a professor"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Professor not found"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewCourseResponse(course), "Course created successfully"))
}

// ListCourses lists courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	skip, limit := helpers.ParseSkipLimit(ctx)
	courses, err := c.courseService.ListCourses(ctx.Request.Context(), skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseListResponse(courses), ""))
}

// GetCourse returns a course
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseResponse(course), ""))
}

// ListByProfessor lists the courses of a professor
// @Summary List courses of a professor
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Professor user ID"
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Maximum items to return" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "User is not a professor"
// @Failure 404 {object} dto.ErrorResponse "Professor not found"
// @Router /courses/professor/{id} [get]
func (c *CourseController) ListByProfessor(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	skip, limit := helpers.ParseSkipLimit(ctx)
	courses, err := c.courseService.ListByProfessor(ctx.Request.Context(), id, skip, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseListResponse(courses), ""))
}

// UpdateCourse updates a course
// @Summary Update course
// @Description Admin only
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, duplicated code or user is not a professor"
// @Failure 404 {object} dto.ErrorResponse "Course or professor not found"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseResponse(course), "Course updated successfully"))
}

// DeleteCourse deletes a course with its exams and bookings
// @Summary Delete course
// @Description Admin only
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Deleted course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.DeleteCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseResponse(course), "Course deleted successfully"))
}
