package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/journal"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/session"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/stabilizer"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/upload"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/handlers"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/models"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/repositories"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/struk-scanner-be/cmd/api/docs"
)

const shutdownTimeout = 10 * time.Second

// @title Struk Scanner API
// @version 1.0
// @description Indonesian receipt OCR parsing and live scan stabilization
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@struk-scanner.id
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting struk-scanner API")

	// Init database
	db, err := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}
	defer db.Close()

	// Init session journal
	scanJournal, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("❌ Failed to open scan journal")
	}
	defer scanJournal.Close()

	// Init repositories
	transactionRepo := repositories.NewTransactionRepo(db.GORM)
	auditService := audit.NewService(db.GORM)
	summaryService := analytics.NewService(
		analytics.NewAggregator(db.GORM, models.Transaction{}.TableName()),
		receipt.CurrencyIDR,
		export.FormatRupiah,
	)

	// Init parser
	parser := receipt.NewParser(receipt.Config{
		MaxMerchantLength: cfg.MaxMerchantLength,
		TotalKeywords:     cfg.TotalKeywords,
	})

	// Init OCR service (multi-provider support)
	ocrProvider, err := ocr.NewProvider(ocr.ProviderConfig{
		Type:              cfg.OCRProvider,
		GoogleAPIKey:      cfg.GoogleVisionAPIKey,
		OCRSpaceAPIKey:    cfg.OCRSpaceAPIKey,
		TesseractLanguage: cfg.TesseractLanguage,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize OCR provider")
	}
	ocrService := ocr.NewService(ocrProvider)
	log.Info().Str("provider", ocrService.GetProviderName()).Msg("🔍 OCR provider ready")

	// Init LLM refiner (optional)
	var refiner handlers.Refiner
	if cfg.LLMRefine {
		llmService, err := llm.NewService(llm.ProviderConfig{
			Type:   llm.ProviderOpenAI,
			APIKey: cfg.OpenAIKey,
			Model:  cfg.LLMModel,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to initialize LLM service")
		}
		refiner = ocr.NewLLMRefiner(llmService)
	} else {
		log.Warn().Msg("⚠️ LLM refinement disabled")
	}

	// Init receipt image storage (optional)
	imageStore, err := upload.NewProvider(context.Background(), upload.ProviderConfig{
		Type:                cfg.ImageStore,
		LocalPath:           cfg.ImageStorePath,
		LocalBaseURL:        cfg.PublicBaseURL,
		S3AccessKeyID:       cfg.AWSAccessKeyID,
		S3SecretAccessKey:   cfg.AWSSecretAccessKey,
		S3Region:            cfg.AWSRegion,
		S3Bucket:            cfg.S3Bucket,
		S3Endpoint:          cfg.S3Endpoint,
		CloudinaryCloudName: cfg.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.CloudinaryAPISecret,
	})
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.ImageStore).Msg("❌ Failed to initialize image storage")
	}
	var archive handlers.ImageArchive
	if imageStore != nil {
		archive = upload.NewArchive(imageStore)
		log.Info().Str("provider", imageStore.GetProviderName()).Msg("🗂️ Receipt images will be archived")
	} else {
		log.Warn().Msg("⚠️ Receipt image storage disabled")
	}

	// Init scan sessions
	sessionManager := session.NewManager(parser, session.Config{
		Engine: stabilizer.Config{
			ThrottleMs:         cfg.ScanThrottleMs,
			StabilityThreshold: cfg.ScanStabilityThreshold,
			MinConfidence:      cfg.ScanMinConfidence,
		},
		IdleTimeout:   cfg.SessionIdleTimeout,
		SweepSchedule: cfg.SessionSweepSchedule,
		MinQuality:    cfg.SessionMinQuality,
		PublicBaseURL: cfg.PublicBaseURL,
	},
		session.WithOCR(ocrProvider),
		session.WithJournal(scanJournal),
		session.WithStableSink(repositories.NewScanSink(transactionRepo, auditService)),
	)
	if err := sessionManager.StartSweeper(); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start session sweeper")
	}
	defer sessionManager.StopSweeper()

	if pruned, err := scanJournal.Prune(context.Background(), time.Now().Add(-cfg.JournalRetention)); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to prune scan journal")
	} else if pruned > 0 {
		log.Info().Int64("events", pruned).Msg("🧹 Old scan events pruned")
	}
	if pruned, err := auditService.Prune(context.Background(), time.Now().Add(-cfg.AuditRetention)); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to prune audit logs")
	} else if pruned > 0 {
		log.Info().Int64("logs", pruned).Msg("🧹 Old audit logs pruned")
	}

	// Init handlers
	routes := handlers.Handlers{
		Health:      handlers.NewHealthHandler(ocrService.GetProviderName(), refiner != nil),
		Receipt:     handlers.NewReceiptHandler(parser, refiner),
		OCR:         handlers.NewOCRHandler(ocrService, parser, refiner, transactionRepo, archive, auditService, cfg.MaxUploadSizeBytes),
		Session:     handlers.NewSessionHandler(sessionManager, cfg.MaxUploadSizeBytes),
		Transaction: handlers.NewTransactionHandler(transactionRepo, export.NewService(), summaryService, archive, auditService),
		Audit:       handlers.NewAuditHandler(auditService),
	}

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Struk Scanner API",
		BodyLimit: int(cfg.MaxUploadSizeBytes) + 1024*1024,
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Locally stored receipt images
	if local, ok := imageStore.(*upload.LocalProvider); ok {
		app.Static(upload.LocalPublicPath, local.BasePath())
	}

	handlers.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("❌ Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("❌ Graceful shutdown failed")
	}
}
