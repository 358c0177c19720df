package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/revitawellness/voiceai-hub/internal/adapter/handler"
	"github.com/revitawellness/voiceai-hub/internal/adapter/repository"
	"github.com/revitawellness/voiceai-hub/internal/infrastructure/database"
	"github.com/revitawellness/voiceai-hub/internal/usecase/lifecycle"
	"github.com/revitawellness/voiceai-hub/internal/usecase/reporting"
	"github.com/revitawellness/voiceai-hub/pkg/config"
	"github.com/revitawellness/voiceai-hub/pkg/telnyx"
	pkgvalidator "github.com/revitawellness/voiceai-hub/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	log.Println("🔧 Initializing dependencies...")

	// Open the embedded database
	log.Println("📦 Opening database...")
	db, err := database.NewSQLiteDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	callRepo := repository.NewCallRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize the voice gateway client
	log.Println("📞 Initializing Telnyx client...")
	gateway := telnyx.NewClient(cfg)

	// Initialize services
	lifecycleSvc := lifecycle.NewService(
		callRepo,
		transcriptRepo,
		insightRepo,
		gateway,
		lifecycle.NewKeywordClassifier(),
		logger,
	)
	reportingSvc := reporting.NewService(statsRepo)

	// Initialize handlers
	log.Println("🪝 Initializing handlers...")
	webhookHandler := handler.NewWebhookHandler(lifecycleSvc, callRepo, gateway, logger)
	callHandler := handler.NewCallHandler(callRepo, transcriptRepo, insightRepo, gateway, logger)
	statsHandler := handler.NewStatsHandler(reportingSvc, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, webhookHandler, callHandler, statsHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.Addr()
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Base URL: %s", cfg.Server.BaseURL)
		log.Printf("📱 Phone: %s", cfg.Telnyx.PhoneNumber)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
