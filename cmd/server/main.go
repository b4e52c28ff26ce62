// PyTutor - AI Python tutor progress server
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

	"github.com/ashpool37/pytutor-server/internal/api"
	"github.com/ashpool37/pytutor-server/internal/config"
	"github.com/ashpool37/pytutor-server/internal/middleware"
	"github.com/ashpool37/pytutor-server/internal/session"
	"github.com/ashpool37/pytutor-server/internal/store"
	"github.com/ashpool37/pytutor-server/internal/tutor"
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

	slog.Info("Starting server", "port", cfg.Port, "backend", cfg.StoreBackend, "dev", cfg.IsDevelopment())

	// Initialize the progress store. Both backends satisfy the same
	// contract; nothing downstream branches on the choice.
	var repo store.Store
	switch cfg.StoreBackend {
	case config.BackendCache:
		repo = store.NewCache(cfg.CacheLatency)
	default:
		sqlite, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		repo = sqlite
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close store", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Progress store ready")

	// Initialize the generation client. Without a key every tutor call
	// degrades to its in-band fallback message.
	var gen tutor.Generator
	if cfg.GeminiAPIKey != "" {
		gen = tutor.NewGeminiClient(tutor.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, logger)
		slog.Info("Generation service configured", "model", cfg.GeminiModel)
	} else {
		gen = tutor.Disabled{}
		slog.Warn("GEMINI_API_KEY not set, tutor features will return fallback messages")
	}

	gateway := tutor.NewGateway(gen)
	sm := session.NewManager(repo, gateway)
	handler := api.NewHandler(repo, sm, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	allowedOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		allowedOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(allowedOrigins))

	handler.RegisterRoutes(r)

	// Note: execution narration streams over WebSocket, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Let any deferred tutor greetings settle before the store closes.
	sm.Wait()

	slog.Info("Server stopped successfully")
}
