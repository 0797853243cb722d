package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/afero"

	"corporate-agent/internal/config"
	"corporate-agent/internal/handlers"
	"corporate-agent/internal/services"
	"corporate-agent/internal/storage"
	"corporate-agent/pkg/log"
)

func main() {
	log.Infof("🚀 Starting ADGM Corporate Agent API...")

	cfg := config.Load()
	log.SetLevel(cfg.LogLevel)

	// Transient upload scopes
	uploads, err := storage.NewUploadStore(afero.NewOsFs(), cfg.UploadDir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize upload store: %v", err)
	}

	// TTL-bounded storage for annotated copies and reports
	artifacts, err := storage.NewTempStorage(cfg.ReviewDir, cfg.ResultTTL)
	if err != nil {
		log.Fatalf("❌ Failed to initialize artifact storage: %v", err)
	}

	// Gemini client is both the review LLM and the embedder
	if cfg.GeminiAPIKey == "" {
		log.Warnf("⚠️  GOOGLE_API_KEY is not set, model calls will fail")
	}
	gemini := services.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey,
		cfg.GeminiModel, cfg.EmbedModel, cfg.LLMTimeout)

	// Reference index built by cmd/indexer. Running without one is allowed;
	// reviews then go to the model without reference context.
	index, err := services.LoadIndex(cfg.IndexPath)
	if err != nil {
		log.Warnf("⚠️  Reference index not loaded (%v), reviewing without context", err)
		index = nil
	} else {
		log.Infof("📚 Reference index loaded: chunks=%d", index.Len())
	}
	retriever := services.NewRetriever(index, gemini)

	reviewer := services.NewReviewer(retriever, gemini, artifacts, cfg.RetrievalTopK)
	dispatcher := services.NewDispatcher(reviewer, cfg.AnalysisTimeout)

	reviewHandler := handlers.NewReviewHandler(uploads, dispatcher, artifacts, retriever)

	app := fiber.New(fiber.Config{
		ServerHeader: "CorporateAgent",
		AppName:      "ADGM Corporate Agent API",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"success":   false,
				"error":     message,
				"timestamp": time.Now().Unix(),
			})
		},
	})

	app.Use(recover.New())

	if cfg.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		}))
	}

	if cfg.EnableRequestLogs {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	api := app.Group("/api")

	api.Post("/review", reviewHandler.Review)
	api.Get("/files/:id", reviewHandler.GetFile)
	api.Get("/reports/:id", reviewHandler.GetReport)

	if cfg.EnableHealthCheck {
		api.Get("/health", reviewHandler.Health)
	}

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "ADGM Corporate Agent API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": []string{
				"POST /api/review",
				"GET  /api/files/:id",
				"GET  /api/reports/:id",
				"GET  /api/health",
			},
		})
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Infof("🛑 Shutting down gracefully...")

		artifacts.Stop()

		if err := app.Shutdown(); err != nil {
			log.Warnf("⚠️  Error during shutdown: %v", err)
		}

		log.Infof("👋 Goodbye!")
		os.Exit(0)
	}()

	log.Infof("🌐 Server starting on port %s", cfg.Port)
	log.Infof("🎯 Environment: %s", cfg.AppEnv)
	log.Infof("✅ Ready to review documents!")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
