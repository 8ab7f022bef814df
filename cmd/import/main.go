package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"transcript-extractor/internal/repository"
	"transcript-extractor/internal/service"
	"transcript-extractor/internal/storage"
	"transcript-extractor/pkg/auth"
	"transcript-extractor/pkg/config"
	"transcript-extractor/pkg/logger"
	"transcript-extractor/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "transcripts", "directory of .txt transcripts to import")
	cacheFile := flag.String("cache", "", "import cache file (default <dir>/.import_cache.json)")
	token := flag.Bool("token", false, "print a bearer token for the API and exit")
	subject := flag.String("subject", "importer", "subject of the token printed by -token")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *token {
		if cfg.Auth.SecretKey == "" {
			log.Fatal("JWT_SECRET_KEY is not set")
		}
		signed, err := auth.NewJWTManager(cfg.Auth.SecretKey, cfg.Auth.Expiration).GenerateToken(*subject)
		if err != nil {
			log.Fatalf("Failed to generate token: %v", err)
		}
		fmt.Println(signed)
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := postgres.NewPool(ctx, &cfg.Database, logger.Component("postgres"))
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to apply schema", zap.Error(err))
	}

	blobs, err := storage.New(ctx, &cfg.Storage, logger.Component("storage"))
	if err != nil {
		appLogger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	if c, ok := blobs.(io.Closer); ok {
		defer c.Close()
	}

	provider, err := service.NewFactProvider(ctx, &cfg.LLM, logger.Component("llm"))
	if err != nil {
		appLogger.Fatal("Failed to initialize completion provider", zap.Error(err))
	}
	if c, ok := provider.(io.Closer); ok {
		defer c.Close()
	}

	extractor := service.NewExtractor(provider, blobs, cfg.Extraction.Timeout, logger.Component("extractor"))
	transcripts := service.NewTranscriptService(repository.NewTranscriptRepository(db, appLogger), blobs, extractor, appLogger)

	if *cacheFile == "" {
		*cacheFile = filepath.Join(*dir, ".import_cache.json")
	}

	appLogger.Info("Starting transcript import", zap.String("dir", *dir))

	stats, err := importTranscripts(ctx, *dir, *cacheFile, transcripts, appLogger)
	if err != nil {
		appLogger.Fatal("Import failed", zap.Error(err))
	}

	appLogger.Info("Transcript import completed",
		zap.Int("imported", stats.Imported),
		zap.Int("skipped", stats.Skipped),
		zap.Int("rejected", stats.Rejected),
		zap.Int("failed", stats.Failed),
		zap.Int("timed_out", stats.TimedOut),
	)
}
