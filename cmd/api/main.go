package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"popforge/internal/audit"
	"popforge/internal/auth"
	"popforge/internal/config"
	"popforge/internal/database"
	"popforge/internal/database/migration"
	"popforge/internal/download"
	"popforge/internal/genai"
	handlers "popforge/internal/http/handler"
	"popforge/internal/http/middleware"
	"popforge/internal/otel"
	"popforge/internal/pdftext"
	"popforge/internal/repository"
	"popforge/internal/repository/postgres"
	"popforge/internal/service"
	"popforge/internal/storage"
	"popforge/internal/tex"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	if cfg.Gemini.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	if cfg.Auth.Username == "" || cfg.Auth.Password == "" {
		log.Fatal("AUTH_USERNAME and AUTH_PASSWORD are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing; degrades to a noop provider when no collector is
	// configured.
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Optional PostgreSQL audit sink; skipped entirely when DB_HOST is unset.
	var db *sql.DB
	var auditRepo repository.AuditRepository
	if cfg.Database.Host != "" {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		auditRepo = postgres.NewAuditPostgres(db)
	}

	auditLog, err := audit.NewLogger(cfg.LogsDir, auditRepo)
	if err != nil {
		log.Fatalf("failed to open audit logs: %v", err)
	}
	defer auditLog.Close()

	// Optional S3-compatible artifact archive (MinIO-supported).
	var archive storage.Storage
	if cfg.MinIO.Endpoint != "" {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	if err := os.MkdirAll(cfg.Latex.OutputDir, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Wire the generation pipeline with injected collaborators.
	issuer := auth.NewIssuer(cfg.Auth)
	tokens := download.NewManager(cfg.Download.TokenTTL)
	tokens.StartSweeper(ctx, cfg.Download.SweepInterval)

	svc := service.NewGenerationService(
		genai.NewGeminiClient(cfg.Gemini),
		pdftext.NewFitzExtractor(),
		tex.NewPdflatexCompiler(cfg.Latex),
		tokens,
		archive,
		auditLog,
		cfg.Latex.OutputDir,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    32 * 1024 * 1024,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Authorization,Content-Type",
	}))
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected collaborators
	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Issuer:    issuer,
		Service:   svc,
		Tokens:    tokens,
		Audit:     auditLog,
		OutputDir: cfg.Latex.OutputDir,
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
