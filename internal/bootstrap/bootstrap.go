package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/tanmay/courtside/internal/app/controllers"
	appMigrations "github.com/tanmay/courtside/internal/app/migrations"
	appRepos "github.com/tanmay/courtside/internal/app/repositories"
	appRoutes "github.com/tanmay/courtside/internal/app/routes"
	appServices "github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/config"
	"github.com/tanmay/courtside/internal/db"
	appMiddleware "github.com/tanmay/courtside/internal/middleware"
	pkgAuth "github.com/tanmay/courtside/internal/pkg/auth"
	"github.com/tanmay/courtside/internal/pkg/cache"
	"github.com/tanmay/courtside/internal/pkg/filestorage"
	"github.com/tanmay/courtside/internal/pkg/helpers"
	"github.com/tanmay/courtside/internal/pkg/logger"
	"github.com/tanmay/courtside/internal/pkg/metrics"
	"github.com/tanmay/courtside/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	LeadService          appServices.LeadService
	StudentService       appServices.StudentService
	PaymentService       appServices.PaymentService
	BatchService         appServices.BatchService
	AttendanceService    appServices.AttendanceService
	StagingService       appServices.StagingService
	ReportService        appServices.ReportService
	CommandCenterService appServices.CommandCenterService
	CenterService        appServices.CenterService
	UserService          appServices.UserService
	NotificationService  appServices.NotificationService

	AuthController          *appControllers.AuthController
	LeadController          *appControllers.LeadController
	StudentController       *appControllers.StudentController
	PublicController        *appControllers.PublicController
	PaymentController       *appControllers.PaymentController
	BatchController         *appControllers.BatchController
	StagingController       *appControllers.StagingController
	ReportController        *appControllers.ReportController
	CommandCenterController *appControllers.CommandCenterController
	CenterController        *appControllers.CenterController
	UserController          *appControllers.UserController
	NotificationController  *appControllers.NotificationController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Metrics        *metrics.HTTPMetrics
	RedisClient    *goredis.Client
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects to Redis when it is enabled. A nil client means the
// report cache is disabled and every report recomputes.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *goredis.Client {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, report caching is off")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, continuing without report caching")
		return nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *goredis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, RedisClient: redisClient}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage serves payment proof uploads under /uploads
	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	reportCache := cache.New(redisClient)

	// Services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
	)
	deps.LeadService = appServices.NewLeadService(
		dbPool,
		deps.Repos.LeadRepository,
		deps.Repos.FollowupRepository,
		deps.Repos.BatchRepository,
		deps.Repos.CenterRepository,
		deps.Repos.UserRepository,
		deps.Repos.NotificationRepository,
		reportCache,
	)
	deps.StudentService = appServices.NewStudentService(
		dbPool,
		deps.Repos.StudentRepository,
		deps.Repos.LeadRepository,
		deps.Repos.BatchRepository,
		deps.Repos.CenterRepository,
		deps.Repos.PaymentRepository,
		deps.Repos.NotificationRepository,
		reportCache,
	)
	deps.PaymentService = appServices.NewPaymentService(
		dbPool,
		deps.Repos.PaymentRepository,
		deps.Repos.StudentRepository,
		deps.Repos.LeadRepository,
		deps.Repos.UserRepository,
		deps.Repos.NotificationRepository,
		deps.FileStorage,
		reportCache,
	)
	deps.BatchService = appServices.NewBatchService(
		deps.Repos.BatchRepository,
		deps.Repos.CenterRepository,
		deps.Repos.UserRepository,
	)
	deps.AttendanceService = appServices.NewAttendanceService(
		dbPool,
		deps.Repos.AttendanceRepository,
		deps.Repos.BatchRepository,
		deps.Repos.StudentRepository,
		reportCache,
	)
	deps.StagingService = appServices.NewStagingService(
		dbPool,
		deps.Repos.StagingRepository,
		deps.Repos.LeadRepository,
		deps.Repos.BatchRepository,
		deps.Repos.UserRepository,
		deps.Repos.NotificationRepository,
		reportCache,
	)
	deps.ReportService = appServices.NewReportService(
		deps.Repos.LeadRepository,
		deps.Repos.PaymentRepository,
		deps.Repos.AttendanceRepository,
		reportCache,
	)
	deps.CommandCenterService = appServices.NewCommandCenterService(
		deps.Repos.LeadRepository,
		deps.Repos.FollowupRepository,
		deps.Repos.StudentRepository,
		deps.Repos.PaymentRepository,
		deps.Repos.StagingRepository,
	)
	deps.CenterService = appServices.NewCenterService(deps.Repos.CenterRepository)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.CenterRepository,
		deps.Repos.TokenRepository,
	)
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Metrics = metrics.NewHTTPMetrics()

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.LeadController = appControllers.NewLeadController(deps.LeadService, cfg)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.AttendanceService)
	deps.PublicController = appControllers.NewPublicController(deps.StudentService)
	deps.PaymentController = appControllers.NewPaymentController(deps.PaymentService)
	deps.BatchController = appControllers.NewBatchController(deps.BatchService, deps.AttendanceService)
	deps.StagingController = appControllers.NewStagingController(deps.StagingService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)
	deps.CommandCenterController = appControllers.NewCommandCenterController(deps.CommandCenterService)
	deps.CenterController = appControllers.NewCenterController(deps.CenterService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.Use(deps.Metrics.Middleware())

	// Prometheus scrape endpoint
	router.GET("/metrics", deps.Metrics.Handler())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.LeadController,
		deps.StudentController,
		deps.PublicController,
		deps.PaymentController,
		deps.BatchController,
		deps.StagingController,
		deps.ReportController,
		deps.CommandCenterController,
		deps.CenterController,
		deps.UserController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	return router
}
