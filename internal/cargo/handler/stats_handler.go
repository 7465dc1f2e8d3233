package handler

import (
	"net/http"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	stats  *service.StatsService
	logger *zap.Logger
}

func NewStatsHandler(stats *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// Summary handles GET /stats/summary.
func (h *StatsHandler) Summary(c *gin.Context) {
	summary, err := h.stats.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
