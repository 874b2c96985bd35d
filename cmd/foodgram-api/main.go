package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"foodgram/internal/api"
	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/recipe"
	"foodgram/internal/storage"
	"foodgram/internal/user"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	media, err := storage.NewMediaStore(cfg.MediaDir)
	if err != nil {
		logger.Fatal("failed to initialize media store", zap.Error(err))
	}

	userRepo := user.NewRepository(db.SQL)
	recipeRepo := recipe.NewRepository(db.SQL)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	server := api.NewServer(userRepo, recipeRepo, media, tokens, cfg.BaseURL, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
