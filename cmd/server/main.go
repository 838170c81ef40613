// SalesWizz - policy-gated sales data chat server
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

	"github.com/ashureev/saleswizz/internal/answer"
	"github.com/ashureev/saleswizz/internal/api"
	"github.com/ashureev/saleswizz/internal/chat"
	"github.com/ashureev/saleswizz/internal/chatws"
	"github.com/ashureev/saleswizz/internal/config"
	"github.com/ashureev/saleswizz/internal/corpus"
	"github.com/ashureev/saleswizz/internal/middleware"
	"github.com/ashureev/saleswizz/internal/policy"
	"github.com/ashureev/saleswizz/internal/roster"
	"github.com/ashureev/saleswizz/internal/store"
	"github.com/ashureev/saleswizz/internal/websession"
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

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Load the read-only roster and corpus once. Both are fatal when
	// unavailable: without them there is nothing to chat about.
	ids, err := roster.Load(context.Background(), repo)
	if err != nil {
		slog.Error("Failed to load identity roster", "error", err)
		os.Exit(1)
	}
	if ids.Len() == 0 {
		slog.Error("Identity roster is empty, nothing to assign")
		os.Exit(1)
	}
	slog.Info("Identity roster loaded", "identities", ids.Len())

	docs, err := corpus.Load(context.Background(), repo)
	if err != nil {
		slog.Error("Failed to load sales corpus", "error", err)
		os.Exit(1)
	}
	slog.Info("Sales corpus loaded", "documents", docs.Len())

	policyEngine, err := policy.NewEngine(logger)
	if err != nil {
		slog.Error("Failed to compile access policy", "error", err)
		os.Exit(1)
	}
	slog.Info("Access policy compiled", "rules", len(policyEngine.Rules()))

	// The external answer engine is optional; without it the built-in
	// deterministic engine answers from the granted records only.
	var engine answer.Engine
	if cfg.AnswerEngineURL != "" {
		client, err := answer.NewClient(answer.ClientConfig{
			BaseURL:        cfg.AnswerEngineURL,
			RequestTimeout: cfg.AnswerTimeout,
			ProbeTimeout:   5 * time.Second,
		}, logger)
		if err != nil {
			slog.Error("Failed to initialize answer engine client", "error", err)
			os.Exit(1)
		}
		engine = client
		slog.Info("External answer engine configured", "url", cfg.AnswerEngineURL)
	} else {
		engine = answer.Local{}
		slog.Info("No ANSWER_ENGINE_URL set, using built-in local engine")
	}

	svc, err := chat.NewService(chat.ServiceConfig{
		Roster:        ids,
		Policy:        policyEngine,
		Corpus:        docs,
		Engine:        engine,
		Repo:          repo,
		AnswerTimeout: cfg.AnswerTimeout,
		Logger:        logger,
	})
	if err != nil {
		slog.Error("Failed to initialize chat service", "error", err)
		os.Exit(1)
	}

	mgr := chat.NewManager(svc, logger)
	conns := chatws.NewConnManager()

	// Initialize handlers.
	apiHandler := api.NewHandler(svc, mgr, logger)
	healthHandler := api.NewHealthHandler(repo)
	wsHandler := chatws.NewHandler(svc, mgr, conns, cfg.FrontendURL, cfg.IsDevelopment(), logger)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	allowedOrigins := []string{"*"}
	if !cfg.IsDevelopment() {
		allowedOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(websession.Middleware(cfg.IsDevelopment()))

	healthHandler.RegisterHealth(r)
	apiHandler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.AnswerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mgr.StartSweeper(ctx, cfg.SessionTTL)
	slog.Info("Session sweeper started", "session_ttl", cfg.SessionTTL)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
