// EduNova learning platform server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/api"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/app"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/chatbot"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/config"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/course"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/health"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/identity"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/metrics"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/middleware"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/realtime"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/render"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/search"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/store"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/summarize"
	"github.com/dinobrefo/EduNova-MINIPROJECT/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "grpc_port", cfg.GRPCPort, "dev", cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	courses := course.NewService(repo)
	if cfg.CatalogSeedPath != "" {
		n, err := courses.ImportFile(ctx, cfg.CatalogSeedPath)
		if err != nil {
			slog.Error("Failed to import catalog", "path", cfg.CatalogSeedPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Catalog imported", "path", cfg.CatalogSeedPath, "courses", n)
	}

	m := metrics.New()

	searcher := app.NewSearch(cfg.Search, m)
	defer searcher.Close()

	summarizer := app.NewSummarizer(ctx, cfg, m)

	chat, err := app.NewChat(cfg.ConversationLog, searcher, m, logger)
	if err != nil {
		slog.Error("Failed to initialize chat", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := app.Closers(chat, summarizer); closeErr != nil {
			slog.Error("Failed to close components", "error", closeErr)
		}
	}()

	limiter := chatbot.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow)
	chatHandler := chatbot.NewHandler(chat.Service, courses, render.NewMarkdown(), limiter)
	defer chatHandler.Close()

	courseHandler := api.NewCourseHandler(courses)
	summaryHandler := summarize.NewHandler(summarizer.Adapter, courses, func(err error) bool {
		return errors.Is(err, course.ErrLessonNotFound)
	})
	searchAdmin := search.NewAdminHandler(searcher)

	conns := realtime.NewConnectionManager()
	wsHandler := realtime.NewHandler(chat.Service, conns, limiter, m, cfg.AllowedOrigins(), cfg.IsDevelopment())

	checks := []api.Check{{Name: "database", Probe: repo.Ping}}
	if summarizer.Redis != nil {
		checks = append(checks, api.Check{Name: "redis", Probe: summarizer.Redis.Ping, Optional: true})
	}
	healthHandler := api.NewHealthHandler(3*time.Second, checks...)

	identityMW := identity.Middleware(courses, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(m.Middleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		healthHandler.RegisterHealth(r)
		r.Group(func(r chi.Router) {
			r.Use(identityMW)
			chatHandler.RegisterRoutes(r)
			courseHandler.RegisterRoutes(r)
			summaryHandler.RegisterRoutes(r)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.OperatorToken(cfg.AdminToken))
			searchAdmin.RegisterRoutes(r)
		})
	})

	r.With(identityMW).Get("/ws/chat", wsHandler.ServeHTTP)

	r.Handle("/*", web.SPAHandler())

	// No WriteTimeout: /ws/chat connections are long-lived.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var grpcServer *health.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			slog.Error("Failed to listen for gRPC", "port", cfg.GRPCPort, "error", err)
			os.Exit(1)
		}
		grpcServer = health.NewServer()
		grpcServer.SetServing(health.ServiceChat, true)
		grpcServer.SetServing(health.ServiceSummarize, summarizer.Ready())
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				slog.Error("gRPC server failed", "error", err)
			}
		}()
	}

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

	conns.CloseAll("server shutting down")
	if grpcServer != nil {
		grpcServer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server stopped successfully", "chat_sessions", chat.Service.Sessions())
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
