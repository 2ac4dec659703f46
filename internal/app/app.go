package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"dashgen/internal/config"
	apierrors "dashgen/internal/errors"
	"dashgen/internal/exporter"
	"dashgen/internal/infrastructure"
	custommw "dashgen/internal/middleware"
	"dashgen/internal/services"
	handlers "dashgen/internal/transport/http"
	ws "dashgen/internal/websocket"
	"dashgen/pkg/contracts"
)


// Application is the dependency container for the web server.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Hub       *ws.Hub
	Dashboard *services.DashboardService
	Health    *services.HealthService

	metrics *custommw.RequestMetrics
}

// NewApplication builds the application with all dependencies wired.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("version", contracts.GetVersionString()),
		slog.Int("port", cfg.Server.Port))

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	hub := ws.NewHub(logger)
	csv := exporter.NewCSVWriter(cfg.Paths)
	dashboard := services.NewDashboardService(logger, hub, csv)
	health := services.NewHealthService(contracts.Version, dashboard)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Hub:       hub,
		Dashboard: dashboard,
		Health:    health,
		metrics:   custommw.NewRequestMetrics(),
	}

	app.setupRouter()

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware that won't interfere with the WebSocket upgrade
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	// WebSocket route stays outside the full middleware group; wrapped
	// response writers break the hijack the upgrade needs.
	wsHandler := handlers.NewWSHandler(a.Hub, a.Logger)
	r.Handle("/ws", wsHandler)

	errorHandler := apierrors.NewErrorHandler(a.Logger)
	batchHandler := handlers.NewBatchHandler(a.Dashboard, a.Config.Upload, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)

	r.Group(func(r chi.Router) {
		r.Use(a.metrics.Middleware)
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: []string{"*"},
			Logger:         a.Logger,
		}))
		r.Use(custommw.Compress(5))

		if a.Config.Server.RateLimitRPS > 0 {
			r.Use(custommw.NewRateLimiter(
				a.Config.Server.RateLimitRPS,
				a.Config.Server.RateLimitBurst,
				a.Logger,
			).Handler)
		}

		r.Mount("/api/batches", batchHandler.Routes())
		r.Mount("/healthz", healthHandler.Routes())
	})

	// Metrics endpoint outside the middleware group
	r.Handle("/metrics", a.metrics.Handler())

	a.Router = r
}

// Run starts the hub and HTTP server and blocks until an interrupt or
// a server failure, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Hub.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.shutdownTimeout())
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()
	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

func (a *Application) shutdownTimeout() time.Duration {
	if a.Config.Server.ShutdownTimeout > 0 {
		return a.Config.Server.ShutdownTimeout
	}
	return 15 * time.Second
}
