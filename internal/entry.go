// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/push"
	"github.com/arnestad/mdxpress/internal/server"
	"github.com/arnestad/mdxpress/internal/sse"
	"github.com/arnestad/mdxpress/internal/storage"
	"github.com/arnestad/mdxpress/internal/watch"
)

// Run starts the publishing server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source_path", cfg.Source.Path),
		slog.String("source_folder", cfg.Source.Folder),
		slog.String("dest_path", cfg.Dest.Path),
		slog.String("manifest_path", cfg.Manifest.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure source and destination trees exist.
	if err := os.MkdirAll(cfg.Source.Path, 0o755); err != nil {
		return fmt.Errorf("create source dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Dest.Path, 0o755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	// Initialize storage providers.
	src, err := storage.NewFS(cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("init source storage: %w", err)
	}
	dst, err := storage.NewFS(cfg.Dest.Path)
	if err != nil {
		return fmt.Errorf("init dest storage: %w", err)
	}

	// Initialize manifest database.
	man, err := manifest.Open(cfg.Manifest.Path)
	if err != nil {
		return fmt.Errorf("init manifest: %w", err)
	}
	defer man.Close()

	pusher := push.New(src, dst, man, logger, push.Config{
		URLPrefixBase: cfg.Publish.URLPrefixBase,
		GroupTag:      cfg.Publish.GroupTag,
		HeadingTag:    cfg.Publish.HeadingTag,
		Workers:       cfg.Publish.Workers,
		Force:         !cfg.Publish.Incremental,
	})

	// Run initial push.
	if report, pushErr := pusher.PushFolder(ctx, cfg.Source.Folder); pushErr != nil {
		logger.Warn("initial push failed", slog.String("error", pushErr.Error()))
	} else if report.Failed() {
		logger.Warn("initial push finished with failures",
			slog.Int("failures", len(report.Failures)))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build API service and router.
	svc := server.NewService(pusher, man, cfg.Source.Folder)
	h := server.NewHandler(svc, server.NewRenderer(dst))
	apiRouter := server.NewRouter(h, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Preview endpoint for published documents.
	r.Get("/preview/*", h.Preview)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start source watcher with SSE callback.
	g.Go(func() error {
		return watch.Watch(gCtx, pusher, man, src, cfg.Source.Folder, logger, func(kind, path string) {
			broker.PublishFileEvent(kind, path)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
