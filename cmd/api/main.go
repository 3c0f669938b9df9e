package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sonicpdf/internal/applog"
	"sonicpdf/internal/bootstrap"
	"sonicpdf/internal/config"
	handlers "sonicpdf/internal/http/handler"
	"sonicpdf/internal/http/middleware"
	"sonicpdf/internal/otel"
	"sonicpdf/internal/pages"
	"sonicpdf/internal/repository/memory"
	"sonicpdf/internal/seed"
	"sonicpdf/internal/service"
	"sonicpdf/internal/storage"
)

// @title Sonic PDF API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := applog.New(os.Stdout, cfg.Location())
	applog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server_exit", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *applog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.EnsureDirs(cfg.Paths, log); err != nil {
		return err
	}

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", map[string]any{"error": err})
		}
	}()

	records, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed records: %w", err)
	}
	repo, err := memory.NewPDFMemory(records)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	objStore, err := newStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	counter, err := pages.New(cfg.PageCounter)
	if err != nil {
		return err
	}
	pdfSvc := service.NewPDFService(objStore, repo,
		service.WithPageCounter(counter),
		service.WithLogger(log),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimit(),
	})

	// RequestID first so every later middleware sees the id
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(os.Stdout, log.Location()))
	app.Use(promMW.Handler())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	handlers.RegisterRoutes(app, handlers.Deps{
		PDFs:     pdfSvc,
		Storage:  objStore,
		Paths:    cfg.Paths,
		Gatherer: reg,
		Docs:     true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_listening", map[string]any{
			"addr":    ":" + cfg.Port,
			"storage": cfg.StorageBackend,
			"records": repo.Len(),
		})
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("server_shutdown", nil)
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "", "local":
		return storage.NewLocal(cfg.Paths.UploadDir)
	case "minio":
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
