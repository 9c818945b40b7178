package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/RiverJensen/Podcast-Transcribe-App/internal/cleanup"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/config"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/handlers"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/logger"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/media"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/pipeline"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/storage"
	"github.com/RiverJensen/Podcast-Transcribe-App/internal/transcription"
)

func main() {
	log := logger.New()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Transcriber.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not set - transcription requests will be rejected upstream")
	}

	scratch, err := cleanup.NewScratch(cfg.Storage.TempDir, log)
	if err != nil {
		log.Fatalf("Failed to prepare temp directory: %v", err)
	}

	validator := media.Validator{
		MaxBytes:           cfg.MaxFileSizeBytes(),
		MaxDurationSeconds: float64(cfg.Limits.MaxDurationSeconds),
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	records := storage.NewRecords(store, log)

	// Google Drive export is optional - it needs credentials and a stored token
	var exporter pipeline.Exporter
	if _, err := os.Stat(cfg.GoogleDrive.CredentialsFile); err == nil {
		drive, err := storage.NewDriveExporter(
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName,
			log,
		)
		if err != nil {
			log.Warnf("Google Drive export not available: %v", err)
		} else {
			log.Info("Google Drive export enabled")
			exporter = drive
		}
	}

	fetcher := media.NewFetcher(validator, scratch, log)
	transcriber := transcription.NewClient(
		cfg.Transcriber.APIKey,
		cfg.Transcriber.Model,
		cfg.Transcriber.Endpoint,
		cfg.Deadline(),
		log,
	)

	svc := pipeline.New(validator, fetcher, transcriber, records, exporter, scratch, log)

	sweeper := cleanup.NewScheduler(cfg.Storage.TempDir, cfg.Cleanup.IntervalMinutes, cfg.Cleanup.MaxAgeHours, log)
	sweeper.Start()
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxFileSizeBytes()) + 1024*1024, // headroom for multipart framing
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.Register(app, handlers.Deps{
		Pipeline:  svc,
		Records:   records,
		Validator: validator,
		Scratch:   scratch,
		Log:       log,
		LogLines:  log.RecentLines,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Infof("server starting on %s", addr)

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("shutting down gracefully...")
		_ = app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
