package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/rysunek/rysunek/internal/auth"
	"github.com/rysunek/rysunek/internal/config"
	"github.com/rysunek/rysunek/internal/discovery"
	"github.com/rysunek/rysunek/internal/drawing"
	"github.com/rysunek/rysunek/internal/engine"
	mw "github.com/rysunek/rysunek/internal/middleware"
	"github.com/rysunek/rysunek/internal/session"
	"github.com/rysunek/rysunek/internal/store"
	"github.com/rysunek/rysunek/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := store.New(pool)
	if err := db.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(db, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(db, drawing.Canvas{
		Width:      cfg.WindowWidth,
		Height:     cfg.WindowHeight,
		Background: cfg.Background,
	})
	drawingHandler := drawing.NewHandler(drawingService)

	hub := session.NewHub(drawingService, engine.Options{
		FillColor: cfg.Toolbar.DefaultFillColor,
		LineColor: cfg.Toolbar.DefaultLineColor,
		NewID:     typeid.NewShapeID,
	})
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.Handle("/auth/me", authService.AuthMiddleware(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	drawingHandler.Register(api)

	// WebSocket endpoint, authenticated by ?token=
	r.Handle("/ws/drawing/{drawingId}", session.NewHandler(hub, authService, cfg.OriginPatterns()))

	if cfg.MDNSEnabled {
		mdnsServer, err := discovery.Advertise(cfg.MDNSInstance, cfg.Port)
		if err != nil {
			slog.Warn("mdns advertise failed", "error", err)
		} else {
			defer mdnsServer.Shutdown()
			slog.Info("advertising on mdns", "instance", cfg.MDNSInstance, "service", discovery.ServiceType)
		}
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.Origins())(r), // preflights never match a route
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all open drawings
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
