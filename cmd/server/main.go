package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kx0101/devoverlay/internal/capture"
	"github.com/kx0101/devoverlay/internal/config"
	"github.com/kx0101/devoverlay/internal/db"
	"github.com/kx0101/devoverlay/internal/handler"
	"github.com/kx0101/devoverlay/internal/inspect"
	"github.com/kx0101/devoverlay/internal/logging"
	"github.com/kx0101/devoverlay/internal/netmon"
	"github.com/kx0101/devoverlay/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	base := logging.NewHandler(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: os.Stderr,
	})

	collector := capture.New(cfg.LogCapacity)
	logger := collector.Logger(base)
	slog.SetDefault(logger)

	monitor := netmon.New(cfg.RequestCapacity)
	client := monitor.Client(&http.Client{Timeout: cfg.OutboundTimeout})

	ctx := context.Background()

	database, err := db.Open(ctx, db.Options{
		URL:         cfg.DatabaseURL,
		Production:  cfg.IsProduction(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := database.Ping(pingCtx); err != nil {
		logger.Warn("database is not reachable yet", "error", err)
	}
	cancelPing()

	h, err := handler.New(handler.HandlerOptions{
		Inspector:   inspect.New(collector, monitor),
		DB:          database,
		TemplatesFS: web.TemplatesFS,
		Logger:      logger,
		Client:      client,
		BaseURL:     cfg.BaseURL,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: h.Routes(handler.RouterOptions{
			DebugEnabled: cfg.DebugEnabled,
			DebugToken:   cfg.DebugToken,
			AccessLogger: logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr, "environment", cfg.Environment, "debug", cfg.DebugEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-done:
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
