// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-judge/cliparse"
	"github.com/danielhkuo/quickly-judge/db"
	"github.com/danielhkuo/quickly-judge/engine"
	"github.com/danielhkuo/quickly-judge/metrics"
	"github.com/danielhkuo/quickly-judge/middleware"
	"github.com/danielhkuo/quickly-judge/notify"
	"github.com/danielhkuo/quickly-judge/router"
	"github.com/danielhkuo/quickly-judge/store"
)

const shutdownTimeout = 10 * time.Second

func newLogger() *slog.Logger {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg cliparse.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(dbConn, logger)
	m := metrics.New()

	hub := notify.NewHub(cfg.SubscriberBuffer, logger)
	hub.SetObserver(m)

	g, gctx := errgroup.WithContext(ctx)

	// Fan out through redis when several instances serve one event
	var broadcaster engine.Broadcaster = hub
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}

		relay, err := notify.NewRedisRelay(rdb, cfg.EventName, hub, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return relay.Run(gctx) })
		broadcaster = relay
		slog.Info("Notification relay enabled", "channel", notify.ChannelName(cfg.EventName))
	}

	phases, err := engine.NewPhases(ctx, st, broadcaster, logger)
	if err != nil {
		return err
	}
	phases.SetRecorder(m)

	eng, err := engine.New(engine.Config{
		Repo:     st,
		Phases:   phases,
		Notifier: broadcaster,
		Recorder: m,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	// Create router
	mux := router.NewRouter(router.Deps{
		Engine:  eng,
		Hub:     hub,
		Metrics: m,
		Config:  cfg,
	})

	// Create server
	server := &http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "event", cfg.EventName)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Wait for Ctrl-C signal or a failed sibling
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed", "error", err)
	return err
}
