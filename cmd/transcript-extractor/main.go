package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"transcript-extractor/internal/api"
	"transcript-extractor/internal/api/handlers"
	"transcript-extractor/internal/repository"
	"transcript-extractor/internal/service"
	"transcript-extractor/internal/storage"
	"transcript-extractor/pkg/auth"
	"transcript-extractor/pkg/config"
	"transcript-extractor/pkg/logger"
	"transcript-extractor/pkg/postgres"

	"go.uber.org/zap"
)

// @title Transcript Extractor API
// @version 1.0
// @description Upload call transcripts and extract assets, expenditures and income with an LLM

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting transcript extractor service")

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize database
	db, err := postgres.NewPool(ctx, &cfg.Database, logger.Component("postgres"))
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to apply schema", zap.Error(err))
	}

	// Initialize storage
	blobs, err := storage.New(ctx, &cfg.Storage, logger.Component("storage"))
	if err != nil {
		appLogger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	if c, ok := blobs.(io.Closer); ok {
		defer c.Close()
	}

	var uploadsDir string
	if local, ok := blobs.(*storage.LocalStore); ok {
		uploadsDir = local.Dir()
	}

	// Initialize completion provider
	provider, err := service.NewFactProvider(ctx, &cfg.LLM, logger.Component("llm"))
	if err != nil {
		appLogger.Fatal("Failed to initialize completion provider", zap.Error(err))
	}
	if c, ok := provider.(io.Closer); ok {
		defer c.Close()
	}

	// Initialize services
	transcriptRepo := repository.NewTranscriptRepository(db, appLogger)
	extractor := service.NewExtractor(provider, blobs, cfg.Extraction.Timeout, logger.Component("extractor"))
	transcriptService := service.NewTranscriptService(transcriptRepo, blobs, extractor, appLogger)

	var jwtManager *auth.JWTManager
	if cfg.Auth.Enabled {
		jwtManager = auth.NewJWTManager(cfg.Auth.SecretKey, cfg.Auth.Expiration)
	}

	// Initialize handlers
	transcriptHandler := handlers.NewTranscriptHandler(transcriptService, appLogger)
	healthHandler := handlers.NewHealthHandler(db, appLogger)

	// Setup router
	app := api.SetupRouter(transcriptHandler, healthHandler, jwtManager, uploadsDir, &cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
