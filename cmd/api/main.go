package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-insights/pkg/validator"

	"github.com/johnquangdev/meeting-insights/internal/adapter/handler"
	"github.com/johnquangdev/meeting-insights/internal/adapter/repository"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/external/mailer"
	"github.com/johnquangdev/meeting-insights/internal/usecase/analysis"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
	"github.com/johnquangdev/meeting-insights/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize Database
	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("Running GORM AutoMigrate (development only)...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	}

	// Initialize cache: Redis when configured, in-memory otherwise
	var store cache.Store
	if cfg.Redis.Host != "" {
		log.Println("Connecting to Redis...")
		redisStore, err := cache.NewRedisStore(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("No Redis host configured, using in-memory cache")
		store = cache.NewMemoryStore()
	}

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	jobRepo := repository.NewAnalysisJobRepository(db)

	// Initialize the Gemini client. A missing API key is fatal: the service
	// cannot do anything useful without its model.
	geminiClient, err := pkgai.NewGeminiClient(&cfg.Gemini, logger)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}

	// Mail notifier is optional
	var notifier analysis.Mailer
	if smtpNotifier := mailer.NewSMTPNotifier(cfg.Mail, logger); smtpNotifier != nil {
		notifier = smtpNotifier
		log.Println("Critical task mail alerts enabled")
	}

	// Initialize analysis service
	analysisService, err := analysis.NewService(
		geminiClient,
		projectRepo,
		meetingRepo,
		taskRepo,
		jobRepo,
		store,
		notifier,
		cfg,
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to initialize analysis service: %v", err)
	}

	// Start background workers for queued analysis jobs
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if err := analysisService.StartWorkerPool(workerCtx, cfg.Analyzer.WorkerCount); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Initialize handlers and routes
	analysisHandler := handler.NewAnalysisController(analysisService, logger)
	meetingHandler := handler.NewMeetingController(meetingRepo, taskRepo, logger)
	uploadHandler := handler.NewUploadController(logger)

	router := handler.NewRouter(cfg, analysisHandler, meetingHandler, uploadHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		log.Printf("Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if err := analysisService.StopWorkerPool(); err != nil {
		log.Printf("Worker pool shutdown: %v", err)
	}
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
