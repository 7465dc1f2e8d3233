package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bbaku36/TUTUYU-Frontend/internal/config"
	"github.com/bbaku36/TUTUYU-Frontend/internal/server"
	"github.com/bbaku36/TUTUYU-Frontend/internal/worker"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := server.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting cargo service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := server.InitDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := server.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	cache := server.InitRedis(cfg.Redis)
	publisher := server.InitPublisher(cfg.Kafka)
	defer publisher.Close()

	srv := server.New(cfg, db, publisher, cache, zapLogger)

	orchestrator := worker.NewOrchestrator(zapLogger)
	if cfg.Archive.Enabled {
		archive := worker.NewArchiveWorker(srv.Services.Shipment, cfg.Archive.Schedule, cfg.Archive.RetentionDays)
		if err := orchestrator.Register(archive); err != nil {
			zapLogger.Fatal("Failed to register archive worker", zap.Error(err))
		}
	}
	orchestrator.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	orchestrator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
