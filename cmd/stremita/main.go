package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/stremita/stremita/internal/config"
	"github.com/stremita/stremita/internal/database"
	"github.com/stremita/stremita/internal/services"
	"github.com/stremita/stremita/pkg/logger"
)

func main() {
	log := logger.NewScoped("App")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open magnet store: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container := services.New(cfg, db)
	container.Cache.StartCleanup(ctx)
	container.Cleanup.Start(ctx)
	defer container.Cleanup.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: buildRouter(container, cfg),
	}

	go func() {
		log.Infof("listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}
