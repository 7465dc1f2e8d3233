package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Customer-facing fallback messages, localized like the rest of the UI.
const (
	msgNotFound    = "Бичлэг олдсонгүй"
	msgServerError = "Серверийн алдаа"
	msgBadRequest  = "Буруу хүсэлт"
	msgAdminOnly   = "Admin secret required"
)

// Handlers bundles the HTTP handlers for route registration.
type Handlers struct {
	Shipment *ShipmentHandler
	Payment  *PaymentHandler
	Pin      *PinHandler
	Content  *ContentHandler
	Stats    *StatsHandler
	Health   *HealthHandler
}

func NewHandlers(svc *service.Services, repos *repository.Repositories, archiveRetentionDays int, logger *zap.Logger) *Handlers {
	return &Handlers{
		Shipment: NewShipmentHandler(svc.Shipment, svc.Payment, archiveRetentionDays, logger),
		Payment:  NewPaymentHandler(svc.Payment, logger),
		Pin:      NewPinHandler(svc.Pin, logger),
		Content:  NewContentHandler(svc.Content, logger),
		Stats:    NewStatsHandler(svc.Stats, logger),
		Health:   NewHealthHandler(repos.Shipment),
	}
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// unclassified is logged in full and surfaces as a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message})
		return
	}

	var pinRequired *service.PinRequiredError
	if errors.As(err, &pinRequired) {
		c.JSON(http.StatusForbidden, gin.H{
			"code":       "PIN_REQUIRED",
			"message":    pinRequired.Message,
			"pinCreated": pinRequired.PinCreated,
		})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return
	}

	logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
}

// shipmentID parses the :id route param.
func shipmentID(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
		return 0, false
	}
	return uint(v), true
}

// pageLimit parses pagination: page floors at 1, limit defaults to 20 and is
// clamped to [1,200].
func pageLimit(c *gin.Context) (page, limit int) {
	page = 1
	limit = 20

	if s := c.Query("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 1 {
			page = v
		}
	}
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v != 0 {
			limit = v
		}
	}
	if limit > 200 {
		limit = 200
	}
	if limit < 1 {
		limit = 1
	}
	return page, limit
}
