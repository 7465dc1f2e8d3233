// Package api adapts the router to a serverless function entrypoint. The
// engine is built once per instance and reused across invocations; the cron
// worker never runs here, archiving goes through the maintenance endpoint.
package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/bbaku36/TUTUYU-Frontend/internal/config"
	"github.com/bbaku36/TUTUYU-Frontend/internal/server"
	"go.uber.org/zap"
)

var (
	once sync.Once
	srv  *server.Server
)

func initServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := server.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	db, err := server.InitDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := server.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	cache := server.InitRedis(cfg.Redis)
	publisher := server.InitPublisher(cfg.Kafka)

	srv = server.New(cfg, db, publisher, cache, zapLogger)
}

// Handler is the function entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(initServer)
	srv.Engine.ServeHTTP(w, r)
}
