package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/config"
	"farmfund/grant-matcher/internal/handlers"
	"farmfund/grant-matcher/internal/logger"
	"farmfund/grant-matcher/internal/matching"
	"farmfund/grant-matcher/internal/repositories"
	"farmfund/grant-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	// Initialize Redis (profile caching)
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		zlog.Warn("redis unavailable, profile caching disabled", zap.Error(err))
		redisClient = nil
	}

	// Initialize repositories
	grantRepo := repositories.NewGrantRepository(db)
	profileRepo := repositories.NewFarmProfileRepository(db)
	docRepo := repositories.NewFarmDocumentRepository(db)
	extractionRepo := repositories.NewExtractionRepository(db)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize Gemini", zap.Error(err))
	}

	searchService, err := services.NewSearchService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
		grantRepo,
		zlog,
	)
	if err != nil {
		zlog.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := searchService.InitCollection(); err != nil {
		zlog.Fatal("failed to initialize Qdrant collection", zap.Error(err))
	}

	profileService := services.NewProfileService(profileRepo, redisClient, cfg.Redis.ProfileTTL, zlog)

	extractorService := services.NewExtractorService(
		extractionRepo,
		docRepo,
		geminiService,
		pdfParser,
		cfg.Worker.RetryMaxAttempts,
		zlog,
	)

	// Initialize the matching engine
	catalog := matching.NewCatalog(grantRepo, zlog)
	engine := matching.NewEngine(catalog, matching.DefaultScoreWeights, zlog)

	ctx := context.Background()

	// Initial catalog load. Failure is not fatal: matching reports
	// unavailable until a reload succeeds.
	if err := catalog.Load(ctx); err != nil {
		zlog.Warn("initial catalog load failed", zap.Error(err))
	}

	// Initialize and start worker
	worker := services.NewWorker(
		extractionRepo,
		extractorService,
		catalog,
		cfg.Matching.ReloadInterval,
		cfg.Worker.Concurrency,
		zlog,
	)
	worker.Start(ctx)

	// Initialize handlers
	matchHandler := handlers.NewMatchHandler(engine, profileService, cfg.Matching)
	profileHandler := handlers.NewProfileHandler(profileService)
	grantHandler := handlers.NewGrantHandler(grantRepo, catalog, searchService)
	healthHandler := handlers.NewHealthHandler(catalog)
	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	extractHandler := handlers.NewExtractHandler(extractionRepo, docRepo, worker)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Farm Grant Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", healthHandler.HandleHealth)

	api.Post("/match", matchHandler.HandleMatch)

	api.Post("/profiles", profileHandler.HandleCreate)
	api.Get("/profiles/:id", profileHandler.HandleGet)
	api.Put("/profiles/:id", profileHandler.HandleUpdate)

	api.Get("/grants/search", grantHandler.HandleSearch)
	api.Get("/grants/:id", grantHandler.HandleGet)
	api.Get("/grants", grantHandler.HandleList)
	api.Post("/admin/catalog/reload", grantHandler.HandleReload)

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/extract", extractHandler.HandleExtract)
	api.Get("/extractions/:id", extractHandler.HandleGetResult)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Farm Grant Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/match",
				"POST /api/v1/profiles",
				"GET /api/v1/grants",
				"GET /api/v1/grants/search",
				"POST /api/v1/upload",
				"POST /api/v1/extract",
				"GET /api/v1/health",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
