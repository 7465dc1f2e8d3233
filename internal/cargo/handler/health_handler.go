package handler

import (
	"net/http"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	shipments *repository.ShipmentRepository
}

func NewHealthHandler(shipments *repository.ShipmentRepository) *HealthHandler {
	return &HealthHandler{shipments: shipments}
}

// Check handles GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "ok"
	if err := h.shipments.Ping(c.Request.Context()); err != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}
