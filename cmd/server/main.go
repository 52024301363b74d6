package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/folio/api"
	"github.com/garnizeh/folio/internal/admin"
	"github.com/garnizeh/folio/internal/blob"
	"github.com/garnizeh/folio/internal/config"
	"github.com/garnizeh/folio/internal/revalidate"
	"github.com/garnizeh/folio/internal/storage"
	"github.com/garnizeh/folio/pkg/models"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	logger.Info("starting folio server", "version", version, "buildTime", buildTime, "env", cfg.Env, "backend", cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("error closing storage", "err", err)
		}
	}()
	if store.Probe != nil {
		store.Probe.Evaluate(ctx)
	}

	gateway := admin.New(store.Backend, admin.Options{
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordBcrypt,
		Env:          cfg.Env,
		Probe:        store.Probe,
		Logger:       logger,
	})

	notifier := revalidate.New(revalidate.Options{
		URL:         cfg.Revalidate.URL,
		Secret:      cfg.Revalidate.Secret,
		Workers:     cfg.Revalidate.Workers,
		MaxAttempts: cfg.Revalidate.MaxAttempts,
		Logger:      logger,
	})
	notifier.Start(ctx)
	defer notifier.Stop()
	gateway.OnChange(func(k models.Kind) { notifier.Enqueue(k) })

	content, err := api.NewContentHandler(gateway, cfg.Cache.TTL)
	if err != nil {
		logger.Error("failed to build content handler", "err", err)
		os.Exit(1)
	}

	// edits that arrive through git rather than the API still refresh reads
	if store.Files != nil {
		go func() {
			err := store.Files.Watch(ctx, func(k models.Kind) {
				content.Invalidate(k)
				notifier.Enqueue(k)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("content watcher stopped", "err", err)
			}
		}()
	}

	handler := api.SetupRoutes(cfg, version, buildTime, api.Deps{
		Gateway:  gateway,
		Content:  content,
		Uploader: blob.NewLocalStore(cfg.Blob.Dir, cfg.Blob.BaseURL, cfg.Blob.MaxBytes),
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server failed", "err", err)
	}
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	logger.Info("server exited")
}
