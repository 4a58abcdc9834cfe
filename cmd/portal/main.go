// Cyberlab portal server.
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

	"github.com/csproj/cyberlab/internal/api"
	"github.com/csproj/cyberlab/internal/cache"
	"github.com/csproj/cyberlab/internal/config"
	"github.com/csproj/cyberlab/internal/fetch"
	"github.com/csproj/cyberlab/internal/handoff"
	"github.com/csproj/cyberlab/internal/lab"
	"github.com/csproj/cyberlab/internal/middleware"
	"github.com/csproj/cyberlab/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting portal", "port", cfg.Port, "lab_service", cfg.LabServiceURL, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	sessionCache := cache.New(cfg.TouchWindow)
	client := fetch.New(cfg.LabServiceURL, nil)
	resolver := handoff.NewResolver(sessionCache, client, cfg.HandoffTTL, cfg.DefaultLabID)
	runners := lab.NewManager(func() *lab.Runner {
		return lab.NewRunner(sessionCache, client)
	})

	// Initialize handlers.
	baseHandler := api.NewHandler(sessionCache, client, resolver, runners, cfg)
	activityHandler := api.NewActivityHandler(baseHandler)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	baseHandler.RegisterRoutes(r)

	// WebSocket keepalive endpoint plus plain-HTTP fallback.
	r.Get("/ws/activity", activityHandler.ServeHTTP)
	r.Post("/api/activity/touch", activityHandler.Touch)

	// Embedded frontend; unknown paths fall back to the entry screen.
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket keepalive connections stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reclaim expired session entries in the background.
	sessionCache.StartJanitor(ctx, cfg.JanitorInterval)

	go func() {
		slog.Info("Portal listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Portal failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Portal forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Portal stopped successfully")
}
