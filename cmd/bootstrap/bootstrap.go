package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-appointment-api/config"
	deliveryHttp "doctor-appointment-api/internal/delivery/http"
	"doctor-appointment-api/internal/delivery/http/handler"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/infrastructure/cache"
	"doctor-appointment-api/internal/infrastructure/database"
	"doctor-appointment-api/internal/repository/memory"
	"doctor-appointment-api/internal/repository/postgres"
	"doctor-appointment-api/internal/service"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/jwt"
	"doctor-appointment-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize the persistence backend
	store, err := app.initStore(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize the token store, falling back to in-process storage when
	// Redis is unreachable. Revocations then only hold within this process.
	tokenStore := app.initTokenStore(cfg)

	// Initialize all layers
	server := initializeServer(cfg, store, tokenStore)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initStore connects the configured persistence backend. With the postgres
// driver the schema migrations run before the store is handed out.
func (app *App) initStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		logrus.Warn("Using in-memory store, data will not survive a restart")
		return memory.NewStore(), nil
	case "postgres":
		db, err := database.NewPostgresConnection(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.RunMigrations(db, cfg.Store.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.DB = db
		logrus.Info("Database connected successfully")
		return postgres.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

func (app *App) initTokenStore(cfg *config.Config) cache.TokenStore {
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logrus.Warnf("Redis unavailable, falling back to in-memory token store: %v", err)
		return cache.NewMemoryTokenStore()
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")
	return cache.NewRedisTokenStore(redisClient)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, store repository.Store, tokenStore cache.TokenStore) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	authorizer := service.NewAuthorizer(service.DoctorMatchPolicy(cfg.Authz.DoctorMatch))
	auditService := service.NewAuditService(log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(store, log, jwtService, tokenStore, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(store, log, authorizer, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(store, log, authorizer, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(store, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, doctorHandler, appointmentHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
