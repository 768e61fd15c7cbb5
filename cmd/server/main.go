package main

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

	"golang.org/x/sync/errgroup"

	"bankeu/internal/platform/config"
	"bankeu/internal/platform/httpserver"
	"bankeu/internal/platform/logger"
	"bankeu/internal/platform/tracing"
)

// main loads configuration, wires the workflow services and runs the HTTP
// server alongside the outbox relay until a signal arrives.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setup := func(ctx context.Context) (func(context.Context) error, error) {
		return tracing.Setup(ctx, cfg.Tracing, "bankeu")
	}
	return withTracing(ctx, setup, cfg.Server.ShutdownTimeout, log, func() error {
		return serve(ctx, cfg, log)
	})
}

// withTracing installs tracing, runs fn and flushes spans on every exit path.
func withTracing(
	ctx context.Context,
	setup func(context.Context) (func(context.Context) error, error),
	timeout time.Duration,
	log *slog.Logger,
	fn func() error,
) error {
	shutdown, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()
	return fn()
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Server.Addr, app.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bankeu", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if app.relay != nil {
		g.Go(func() error {
			log.Info("starting outbox relay", "topic", cfg.Kafka.Topic)
			return app.relay.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
