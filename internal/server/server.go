package server

import (
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/handler"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/bbaku36/TUTUYU-Frontend/internal/config"
	"github.com/bbaku36/TUTUYU-Frontend/internal/events"
	"github.com/bbaku36/TUTUYU-Frontend/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server owns the assembled gin engine plus the service and repository sets.
// Both the long-running process and the serverless adapter build one of these,
// so route registration lives in exactly one place.
type Server struct {
	Engine       *gin.Engine
	Repositories *repository.Repositories
	Services     *service.Services
	Handlers     *handler.Handlers
}

// New wires repositories, services, handlers and middleware into a router.
func New(cfg *config.Config, db *gorm.DB, publisher events.Publisher, cache *redis.Client, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)

	repos := repository.NewRepositories(db)
	svcs := service.NewServices(db, repos, cfg.Pin.Secret, publisher, cache, cfg.Redis.CacheTTL, logger)
	handlers := handler.NewHandlers(svcs, repos, cfg.Archive.RetentionDays, logger)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.AuthContext(cfg.Pin.Secret))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(engine, handlers)

	return &Server{
		Engine:       engine,
		Repositories: repos,
		Services:     svcs,
		Handlers:     handlers,
	}
}

func registerRoutes(engine *gin.Engine, h *handler.Handlers) {
	engine.GET("/health", h.Health.Check)

	shipments := engine.Group("/shipments")
	{
		shipments.GET("", h.Shipment.List)
		shipments.POST("", h.Shipment.Create)
		shipments.POST("/batch", h.Shipment.Batch)
		shipments.GET("/:id", h.Shipment.Get)
		shipments.PUT("/:id", h.Shipment.Update)
		shipments.PATCH("/:id/status", h.Shipment.UpdateStatus)
		shipments.GET("/:id/payments", h.Shipment.ListPayments)
	}

	engine.POST("/payments", h.Payment.Create)

	engine.GET("/stats/summary", h.Stats.Summary)

	engine.GET("/content", h.Content.Get)
	engine.PUT("/content", h.Content.Put)

	pins := engine.Group("/pins")
	{
		pins.POST("/ensure", h.Pin.Ensure)
		pins.POST("/lookup", h.Pin.Lookup)
	}

	engine.POST("/maintenance/archive", h.Shipment.Archive)
}
