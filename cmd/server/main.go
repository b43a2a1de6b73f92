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

	"spacetime-server/internal/auth"
	"spacetime-server/internal/event"
	"spacetime-server/internal/middleware"
	"spacetime-server/internal/server"
	"spacetime-server/internal/shared/config"
	"spacetime-server/internal/shared/database"
	"spacetime-server/internal/shared/logger"
	"spacetime-server/internal/shared/redis"
	"spacetime-server/internal/space"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(ctx, os.DirFS(cfg.Database.MigrationsPath)); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx)
	if err != nil {
		log.Warn("Continuing without ancestor cache", "error", err)
		rdb = nil
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis", "error", err)
		}
	}()

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		return err
	}

	spaceService := space.NewService(
		space.NewRepository(db, slog.Default()),
		space.NewAncestorCache(rdb, cfg.Redis.CacheTTL),
		cfg.Spacetime.RootName,
		slog.Default(),
	)
	if err := spaceService.Bootstrap(ctx); err != nil {
		return err
	}

	eventService := event.NewService(event.NewRepository(db, slog.Default()), spaceService, slog.Default())

	routes := server.NewRoutes(db, rdb, spaceService, eventService, middleware.NewAuth(tokens), cfg.Spacetime.DefaultLayout)
	handler := server.Handler(
		routes.Setup(),
		middleware.NewCORS(cfg.Frontend),
		middleware.NewRateLimiter(ctx, cfg.RateLimit),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Spacetime server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"spaces", spaceService.Registry().Len(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
