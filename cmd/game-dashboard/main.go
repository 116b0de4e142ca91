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

	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/board"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/cache"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/config"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/dedup"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/effects"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/hub"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/loadlog"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/poller"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers/postgres"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/providers/sheets"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/ratelimit"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/registry"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/render"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/internal/retry"
	"github.com/XavierBriggs/fortuna/services/game-dashboard/pkg/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshLimitKey = "dashboard:ratelimit:refresh"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("service", "game-dashboard", "run_id", uuid.NewString())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Row sources
	mode := cfg.Sheets.Mode
	sheetsClient := sheets.New(sheets.Config{
		BaseURL: cfg.Sheets.BaseURL,
		APIKey:  cfg.Sheets.APIKey,
		Mode:    mode,
		Timeout: cfg.Sheets.Timeout,
		Retry:   retry.NewRetryPolicy(cfg.Retry.Attempts, cfg.Retry.InitialDelay, sheets.Retryable),
	})
	if mode == sheets.ModeDemo {
		logger.Warn("no sheets api key configured, serving demonstration data")
	}

	mux := providers.NewMux()
	mux.Handle(models.SourceSheets, sheetsClient)

	var recorder poller.LoadRecorder
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		mux.Handle(models.SourcePostgres, postgres.NewSource(db))
		logger.Info("connected to postgres")

		if cfg.LoadLogEnabled() {
			loadLogger := loadlog.NewLoadLogger(db)
			if err := loadLogger.EnsureSchema(ctx); err != nil {
				logger.Error("failed to prepare load log", "err", err)
				os.Exit(1)
			}
			recorder = loadLogger
		}
	}

	// Dashboard state
	reg, err := registry.New(cfg.Sources)
	if err != nil {
		logger.Error("failed to build registry", "err", err)
		os.Exit(1)
	}
	b := board.New(reg.IDs())
	renderer, err := render.New()
	if err != nil {
		logger.Error("failed to load templates", "err", err)
		os.Exit(1)
	}

	// Live updates
	h := hub.NewHub(logger)
	animator := effects.NewPageAnimator(h.BroadcastTyping)
	h.SetWelcome(func() []models.ServerMessage {
		now := time.Now()
		var msgs []models.ServerMessage
		for _, w := range b.All() {
			msgs = append(msgs, models.ServerMessage{Type: models.MessageTypeWidgetUpdate, Payload: w, Timestamp: now})
		}
		for _, f := range animator.Current() {
			msgs = append(msgs, models.ServerMessage{Type: models.MessageTypeTypingFrame, Payload: f, Timestamp: now})
		}
		return msgs
	})
	b.OnUpdate(h.BroadcastWidget)

	orch := poller.NewOrchestrator(reg, mux, b, renderer, cfg.Slots, logger)
	if recorder != nil {
		orch.WithRecorder(recorder)
	}

	var limiter handlers.RefreshLimiter
	if cfg.RedisEnabled() {
		opts, err := cfg.RedisOptions()
		if err != nil {
			logger.Error("invalid redis config", "err", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
		logger.Info("connected to redis", "addr", opts.Addr)

		orch.WithCache(cache.NewRedisWriter(redisClient, cfg.Redis.TTL)).
			WithPublisher(publisher.NewStreamPublisher(redisClient), dedup.NewDeduplicator(redisClient, cfg.Redis.TTL))
		limiter = ratelimit.NewTokenBucket(redisClient, refreshLimitKey, cfg.RefreshPerMinute)
	}

	refresher := poller.NewRefresher(orch, cfg.RefreshInterval, logger)

	go h.Run(ctx)
	go animator.Run(ctx)
	go refresher.Run(ctx)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	handler := handlers.NewHandler(ctx, handlers.Deps{
		Registry:  reg,
		Board:     b,
		Renderer:  renderer,
		Refresher: refresher,
		Hub:       h,
		Effects:   effects.DefaultConfig(),
		Slots:     cfg.Slots,
		Mode:      string(mode),
		Limiter:   limiter,
		Logger:    logger,
	})
	handler.Register(r)

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("game dashboard listening",
			"addr", cfg.Server.Addr,
			"mode", mode,
			"games", len(reg.IDs()),
			"slots", len(cfg.Slots),
			"redis", cfg.RedisEnabled(),
			"load_log", recorder != nil,
		)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}

	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", "err", err)
			if err := srv.Close(); err != nil {
				logger.Error("could not stop server", "err", err)
			}
		}
	}

	logger.Info("shutdown complete")
}
