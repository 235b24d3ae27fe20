// Command rfsimd runs the coverage-map HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chris-casper/RF-Sim/internal/config"
	"github.com/chris-casper/RF-Sim/internal/logging"
	"github.com/chris-casper/RF-Sim/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logging.Fatal("failed to load configuration", zap.Error(err))
	}

	if err := logging.Initialize(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		logging.Fatal("failed to initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	logging.Info("starting coverage map service",
		zap.String("version", config.GetVersion()),
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("engine_dir", cfg.EngineDir),
		zap.String("terrain_dir", cfg.TerrainDir))

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to create server", zap.Error(err))
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // engine runs can take minutes
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info("server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logging.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("server shutdown error", zap.Error(err))
	}
	logging.Info("server stopped")
}
