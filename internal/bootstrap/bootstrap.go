package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/exambook/internal/app/auth"
	appControllers "github.com/yigit/exambook/internal/app/controllers"
	appMigrations "github.com/yigit/exambook/internal/app/migrations"
	appRepos "github.com/yigit/exambook/internal/app/repositories"
	"github.com/yigit/exambook/internal/app/repositories/memory"
	appRoutes "github.com/yigit/exambook/internal/app/routes"
	appServices "github.com/yigit/exambook/internal/app/services"
	"github.com/yigit/exambook/internal/config"
	"github.com/yigit/exambook/internal/db"
	appMiddleware "github.com/yigit/exambook/internal/middleware"
	pkgAuth "github.com/yigit/exambook/internal/pkg/auth"
	"github.com/yigit/exambook/internal/pkg/logger"
	"github.com/yigit/exambook/internal/pkg/validation"
	"github.com/yigit/exambook/internal/pkg/websocket"
	"github.com/yigit/exambook/internal/seed"
)

// Storage is the selected persistence backend
type Storage struct {
	Driver string
	Repos  *appRepos.Repositories
	// DB is nil for the in-memory driver
	DB *db.PostgresDB
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services          *appServices.Services
	AuthController    *appControllers.AuthController
	UserController    *appControllers.UserController
	CourseController  *appControllers.CourseController
	ExamController    *appControllers.ExamController
	BookingController *appControllers.BookingController
	HealthController  *appControllers.HealthController
	SeatFeed          *appControllers.SeatFeedController
	SeatHub           *websocket.Hub
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	Logger            zerolog.Logger

	stopHub context.CancelFunc
}

// Close stops the seat feed hub and disconnects its clients
func (d *Dependencies) Close() {
	if d.stopHub != nil {
		d.stopHub()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured backend. For postgres it establishes the
// pool and runs the migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &Storage{Driver: config.DriverMemory, Repos: memory.NewStore().Repositories()}, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return &Storage{
		Driver: config.DriverPostgres,
		Repos:  appRepos.NewRepositories(database.Pool),
		DB:     database,
	}, nil
}

// BuildDependencies initializes services, middleware and controllers and seeds the default admin.
func BuildDependencies(cfg *config.Config, storage *Storage, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: storage.Repos}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, nil, lgr)
	deps.SeatHub = websocket.NewHub(lgr)
	hubCtx, stopHub := context.WithCancel(context.Background())
	deps.stopHub = stopHub
	go deps.SeatHub.Run(hubCtx)
	deps.Services.BookingService.SetSeatNotifier(deps.SeatHub)

	deps.AuthzService = appAuth.NewAuthorizationService(deps.JWTService, deps.Repos.UserRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthzService)

	if err := seed.CreateDefaultData(context.Background(), cfg, deps.Repos.UserRepository, deps.Services.UserService, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	var pinger appControllers.Pinger
	if storage.DB != nil {
		pinger = storage.DB
	}

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.Services.UserService)
	deps.CourseController = appControllers.NewCourseController(deps.Services.CourseService)
	deps.ExamController = appControllers.NewExamController(deps.Services.ExamService)
	deps.BookingController = appControllers.NewBookingController(deps.Services.BookingService)
	deps.HealthController = appControllers.NewHealthController(storage.Driver, pinger)
	deps.SeatFeed = appControllers.NewSeatFeedController(deps.SeatHub, deps.Services.BookingService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterRules()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.CourseController,
		deps.ExamController,
		deps.BookingController,
		deps.HealthController,
		deps.SeatFeed,
		deps.AuthMiddleware,
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
