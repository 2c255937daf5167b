package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrsync/internal/bridge"
	"hrsync/internal/bus"
	"hrsync/internal/domain/activity"
	"hrsync/internal/domain/sync"
	"hrsync/internal/localstore"
	"hrsync/internal/platform/config"
	"hrsync/internal/platform/db"
	"hrsync/internal/platform/jobs"
	"hrsync/internal/platform/metrics"
	"hrsync/internal/remote"
	"hrsync/internal/session"
	"hrsync/internal/transport/http/handlers"
	"hrsync/internal/transport/http/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	for _, dir := range []string{filepath.Dir(cfg.LocalStorePath), cfg.PayslipDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("create data dir failed", "dir", dir, "err", err)
			os.Exit(1)
		}
	}

	local, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		slog.Error("local store open failed", "path", cfg.LocalStorePath, "err", err)
		os.Exit(1)
	}

	eventBus := bus.New()
	sess := session.New()
	gateway := remote.NewGateway(pool)
	authSvc := remote.NewAuth(pool, cfg.JWTSecret, cfg.SessionTTL)
	logger := activity.NewLogger(local, activity.DefaultLimit)
	service := sync.NewService(gateway, local, logger, eventBus)

	// The bridge mirrors remote changes from other sessions into the local
	// cache. Refresh re-reads through the service so the cache is rewritten
	// with whatever the remote now holds.
	rtBridge := bridge.New(gateway, eventBus, sess, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := service.ListEmployees(refreshCtx, sess); err != nil {
			slog.Warn("bridge refresh failed", "err", err)
		}
	})
	if err := rtBridge.Start(ctx); err != nil {
		// The app stays usable on the local store when the change stream is
		// unavailable.
		slog.Warn("realtime bridge unavailable", "err", err)
	} else {
		defer rtBridge.Close()
	}

	collector := metrics.New()
	defer collector.Watch(eventBus)()

	sweeper := jobs.New(service, sess, cfg.TrashSweepInterval)
	sweeper.Start(ctx)

	handler := handlers.NewHandler(service, authSvc, sess, eventBus, cfg.PayslipDir)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Instrument(collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authSvc))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Snapshot())
	})

	router.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	slog.Info("hrsync server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
