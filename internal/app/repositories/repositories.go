package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/exambook/internal/app/models"
)

// psql is the statement builder shared by the PostgreSQL repositories
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// IUserRepository defines the user (identity) store
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.User, error)
	List(ctx context.Context, skip, limit int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// ICourseRepository defines the course catalog store
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, skip, limit int) ([]*models.Course, error)
	ListByProfessor(ctx context.Context, professorID int64, skip, limit int) ([]*models.Course, error)
	CountByProfessor(ctx context.Context, professorID int64) (int, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// IExamRepository defines the exam catalog store
type IExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
	List(ctx context.Context, skip, limit int) ([]*models.Exam, error)
	ListActiveUpcoming(ctx context.Context, now time.Time, skip, limit int) ([]*models.Exam, error)
	ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]*models.Exam, error)
	ListUpcomingByCourse(ctx context.Context, courseID int64, now time.Time, skip, limit int) ([]*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id int64) error
}

// AdmissionTx is the view of the booking store available inside an admission
// unit. Every call is scoped to the locked exam.
type AdmissionTx interface {
	// FindBooking returns the booking of studentID for the locked exam, or nil
	FindBooking(ctx context.Context, studentID int64) (*models.Booking, error)
	// CountConfirmed counts the confirmed bookings of the locked exam
	CountConfirmed(ctx context.Context) (int, error)
	// Insert stores a new booking for the locked exam
	Insert(ctx context.Context, booking *models.Booking) error
	// SetConfirmed updates the confirmation flag of a booking of the locked exam
	SetConfirmed(ctx context.Context, booking *models.Booking) error
	// SaveExam persists changes to the locked exam
	SaveExam(ctx context.Context, exam *models.Exam) error
}

// AdmissionFn runs with the locked exam. Returning an error discards every write.
type AdmissionFn func(ctx context.Context, exam *models.Exam, tx AdmissionTx) error

// IBookingRepository defines the booking store
type IBookingRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByStudentAndExam(ctx context.Context, studentID, examID int64) (*models.Booking, error)
	List(ctx context.Context, skip, limit int) ([]*models.Booking, error)
	ListByStudent(ctx context.Context, studentID int64, skip, limit int) ([]*models.Booking, error)
	ListByExam(ctx context.Context, examID int64, skip, limit int) ([]*models.Booking, error)
	CountConfirmedByExam(ctx context.Context, examID int64) (int, error)
	Delete(ctx context.Context, id int64) error

	// RunAdmission locks the exam row and runs fn atomically. It returns a
	// NotFound error without calling fn when the exam does not exist.
	RunAdmission(ctx context.Context, examID int64, fn AdmissionFn) error
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    IUserRepository
	CourseRepository  ICourseRepository
	ExamRepository    IExamRepository
	BookingRepository IBookingRepository
}

// NewRepositories initializes the PostgreSQL repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		CourseRepository:  NewCourseRepository(db),
		ExamRepository:    NewExamRepository(db),
		BookingRepository: NewBookingRepository(db),
	}
}

// page applies skip/limit to a select
func page(q squirrel.SelectBuilder, skip, limit int) squirrel.SelectBuilder {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return q.Offset(uint64(skip)).Limit(uint64(limit))
}
