package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/pkg/auth"
)

// Services defined in this package:
// - AuthService: authentication, token issue/verification and registration
// - UserService: user accounts
// - CourseService: course catalog
// - ExamService: exam sessions of courses
// - BookingService: the booking admission engine

// Clock returns the current time; injectable for tests
type Clock func() time.Time

// Services holds all the service instances
type Services struct {
	AuthService    *AuthService
	UserService    *UserService
	CourseService  *CourseService
	ExamService    *ExamService
	BookingService *BookingService
}

// NewServices wires every service on top of repos
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, clock Clock, logger zerolog.Logger) *Services {
	if clock == nil {
		clock = time.Now
	}

	userService := NewUserService(repos.UserRepository, repos.CourseRepository, logger)
	return &Services{
		AuthService:    NewAuthService(repos.UserRepository, userService, jwtService, logger),
		UserService:    userService,
		CourseService:  NewCourseService(repos.CourseRepository, repos.UserRepository, logger),
		ExamService:    NewExamService(repos.ExamRepository, repos.CourseRepository, repos.BookingRepository, clock, logger),
		BookingService: NewBookingService(repos.BookingRepository, repos.UserRepository, repos.ExamRepository, clock, logger),
	}
}
