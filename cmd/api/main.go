// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bookshelf HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables.
//  2. Initialize structured logger.
//  3. Open the byte store (memory, file, Redis or PostgreSQL).
//  4. Load the collection into the dispatcher.
//  5. Wire HTTP handlers and the snapshot feed.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/bootstrap"
	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/logging"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// A bootstrap logger reports configuration errors as structured JSON.
	log, _ := logging.New(os.Stdout, logging.Options{App: constants.AppName})

	cfg, err := config.Load()
	must(log, err, "load configuration")

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, logCloser := logging.New(os.Stdout, logging.Options{
		App:   constants.AppName,
		Debug: cfg.Debug,
		File:  cfg.LogFile,
	})
	defer logCloser.Close()
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)
	log.Debug("debug_logging_enabled")

	// Root context for the process. Cancelled on shutdown to stop background workers.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup gets a deadline so misconfiguration is caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Byte Store ─────────────────────────────────────────────────────
	store, err := bootstrap.OpenStore(startupCtx, cfg, log)
	must(log, err, "open store")
	defer store.Close()

	// ── 4. Dispatcher & Feed ──────────────────────────────────────────────
	feed := book.NewFeed(log, cfg.AllowedOrigins())

	dispatcher, err := bootstrap.NewDispatcher(startupCtx, store, log,
		book.WithNotifier(book.NewLogNotifier(log)),
		book.WithObserver(feed),
	)
	must(log, err, "load collection")

	// ── 5. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		StoreName:  store.Name,
		CheckStore: store.Ping,
	}, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Books:     book.NewHandler(dispatcher, feed),
	})

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Feed clients hold hijacked connections that Shutdown does not wait for.
	_ = feed.Close()

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
