package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/exambook/internal/app/auth"
	"github.com/yigit/exambook/internal/app/controllers"
	"github.com/yigit/exambook/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	courseController *controllers.CourseController,
	examController *controllers.ExamController,
	bookingController *controllers.BookingController,
	healthController *controllers.HealthController,
	seatFeedController *controllers.SeatFeedController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Health)

	// --- Public Auth routes ---
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authController.Login)
		// An admin token, when present, allows creating admin accounts
		authGroup.POST("/register", authMiddleware.OptionalAuth(), authController.Register)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RequireCapability(auth.CapAdmin)
	professorOrAdmin := authMiddleware.RequireCapability(auth.CapProfessorOrAdmin)
	selfOrAdmin := authMiddleware.RequireSelfOrAdmin("id")

	users := authenticated.Group("/users")
	{
		users.GET("", adminOnly, userController.ListUsers)
		users.POST("", adminOnly, userController.CreateUser)
		users.GET("/me", userController.GetMe)
		users.PUT("/me", userController.UpdateMe)
		users.GET("/:id", selfOrAdmin, userController.GetUser)
		users.PUT("/:id", selfOrAdmin, userController.UpdateUser)
		users.DELETE("/:id", adminOnly, userController.DeleteUser)
	}

	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
		courses.GET("/professor/:id", courseController.ListByProfessor)
		courses.POST("", adminOnly, courseController.CreateCourse)
		courses.PUT("/:id", adminOnly, courseController.UpdateCourse)
		courses.DELETE("/:id", adminOnly, courseController.DeleteCourse)
	}

	exams := authenticated.Group("/exams")
	{
		exams.GET("", examController.ListExams)
		exams.GET("/active", examController.ListActiveExams)
		exams.GET("/:id", examController.GetExam)
		exams.GET("/course/:id", examController.ListByCourse)
		exams.GET("/course/:id/upcoming", examController.ListUpcomingByCourse)
		exams.GET("/:id/seats/ws", seatFeedController.WatchSeats)
		exams.POST("", professorOrAdmin, examController.CreateExam)
		exams.PUT("/:id", professorOrAdmin, examController.UpdateExam)
		exams.DELETE("/:id", professorOrAdmin, examController.DeleteExam)
	}

	// Ownership of a single booking is checked by the controller once the booking is loaded
	bookings := authenticated.Group("/bookings")
	{
		bookings.POST("", bookingController.CreateBooking)
		bookings.GET("", adminOnly, bookingController.ListBookings)
		bookings.GET("/:id", bookingController.GetBooking)
		bookings.PUT("/:id", adminOnly, bookingController.UpdateBooking)
		bookings.DELETE("/:id", bookingController.DeleteBooking)
		bookings.GET("/student/:id", selfOrAdmin, bookingController.ListByStudent)
		bookings.DELETE("/student/:id/exam/:examId", selfOrAdmin, bookingController.CancelBooking)
		bookings.GET("/exam/:id", professorOrAdmin, bookingController.ListByExam)
		bookings.GET("/exam/:id/count", professorOrAdmin, bookingController.CountByExam)
	}
}
