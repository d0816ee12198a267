package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfqa/docs"
	"pdfqa/internal/answer"
	"pdfqa/internal/config"
	"pdfqa/internal/database"
	"pdfqa/internal/database/migration"
	"pdfqa/internal/extract"
	handlers "pdfqa/internal/http/handler"
	"pdfqa/internal/http/middleware"
	"pdfqa/internal/otel"
	"pdfqa/internal/repository/postgres"
	"pdfqa/internal/service"
	"pdfqa/internal/storage"
)

// @title PDF Q&A API
// @version 1.0
// @BasePath /
func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing is a no-op unless OTEL_TRACES_ENABLED is set.
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctxShutdown)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Blob storage backend: local filesystem by default, S3-compatible
	// object storage when configured.
	var store storage.Storage
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewMinIO(cfg.Storage.MinIO)
	default:
		store, err = storage.NewLocal(cfg.Storage)
	}
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}

	answerer, err := answer.NewGemini(ctx, cfg.Gemini)
	if err != nil {
		log.Fatalf("failed to initialize answer client: %v", err)
	}
	defer answerer.Close()

	// Repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	questionRepo := postgres.NewQuestionPostgres(db)
	extractor := extract.NewPDFExtractor()
	docSvc := service.NewDocumentService(store, docRepo, questionRepo, extractor)
	ansSvc := service.NewAnswerService(docRepo, questionRepo, answerer)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})

	// Global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))

	// Prometheus request metrics plus default process/go collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, ansSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
