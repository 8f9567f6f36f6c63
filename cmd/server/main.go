// Package main is the entrypoint for the TrichoScan API server.
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

	"github.com/joho/godotenv"
	"github.com/prohair-dev/trichoscan/internal/admin"
	"github.com/prohair-dev/trichoscan/internal/api"
	"github.com/prohair-dev/trichoscan/internal/api/handler"
	mw "github.com/prohair-dev/trichoscan/internal/api/middleware"
	"github.com/prohair-dev/trichoscan/internal/api/response"
	"github.com/prohair-dev/trichoscan/internal/cache"
	"github.com/prohair-dev/trichoscan/internal/config"
	"github.com/prohair-dev/trichoscan/internal/mail"
	"github.com/prohair-dev/trichoscan/internal/quota"
	"github.com/prohair-dev/trichoscan/internal/store"
	"github.com/prohair-dev/trichoscan/internal/vision"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "vision_provider", cfg.Vision.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create vision provider
	provider, err := vision.NewProvider(cfg.Vision)
	if err != nil {
		return fmt.Errorf("create vision provider: %w", err)
	}
	slog.Info("vision provider initialized", "provider", provider.Name())

	// 6. Create store, quota manager, and mail dispatcher
	pgStore := store.NewPostgresStore(pool)
	quotaManager := quota.NewManager(pgStore)

	var sender mail.Sender = mail.NoopSender{}
	if cfg.SMTP.Host != "" {
		smtpSender, err := mail.NewSMTPSender(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("create smtp sender: %w", err)
		}
		sender = smtpSender
	}
	dispatcher := mail.NewDispatcher(sender)

	// 7. Build the analysis pipeline and router
	analysisService := vision.NewAnalysisService(provider, pgStore, quotaManager, dispatcher, cfg.Vision.InferenceTimeout)

	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMin),

		HealthHandler:       healthHandler(pgStore, redisCache),
		AnalyzeHandler:      handler.NewAnalyzeHandler(analysisService),
		UpdateConfigHandler: handler.NewUpdateConfigHandler(pgStore),
		ResetQuotaHandler:   handler.NewResetQuotaHandler(pgStore, cfg.Admin.Key),
	}

	if cfg.Admin.PasswordHash != "" {
		panel, err := admin.NewPanel(pgStore)
		if err != nil {
			return fmt.Errorf("create admin panel: %w", err)
		}
		deps.AdminAuth = mw.NewAdminAuth(cfg.Admin.User, cfg.Admin.PasswordHash)
		deps.AdminPanel = panel.Routes()
	} else {
		slog.Warn("ADMIN_PASSWORD_HASH not set, admin panel disabled")
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 2 * cfg.Vision.InferenceTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "degraded",
				"services": checks,
			})
			return
		}

		response.JSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
