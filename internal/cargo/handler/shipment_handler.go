package handler

import (
	"net/http"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/bbaku36/TUTUYU-Frontend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShipmentHandler serves the shipment CRUD, batch and maintenance routes.
type ShipmentHandler struct {
	shipments            *service.ShipmentService
	payments             *service.PaymentService
	archiveRetentionDays int
	logger               *zap.Logger
}

func NewShipmentHandler(shipments *service.ShipmentService, payments *service.PaymentService, archiveRetentionDays int, logger *zap.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		shipments:            shipments,
		payments:             payments,
		archiveRetentionDays: archiveRetentionDays,
		logger:               logger,
	}
}

// List handles GET /shipments with the filter set and pagination.
func (h *ShipmentHandler) List(c *gin.Context) {
	filters := repository.ShipmentFilters{
		Phone:    c.Query("phone"),
		Barcode:  c.Query("barcode"),
		Status:   c.Query("status"),
		Location: c.Query("location"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
		Search:   c.Query("search"),
	}
	page, limit := pageLimit(c)

	rows, total, err := h.shipments.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": rows,
		"meta": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// Get handles GET /shipments/:id.
func (h *ShipmentHandler) Get(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	shipment, err := h.shipments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// Create handles POST /shipments.
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req service.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}

	shipment, err := h.shipments.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

// Update handles PUT /shipments/:id, including the delivery PIN gate.
func (h *ShipmentHandler) Update(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	var req service.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}

	shipment, err := h.shipments.FullUpdate(c.Request.Context(), id, &req, middleware.AuthFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// UpdateStatus handles PATCH /shipments/:id/status.
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	var req service.StatusPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}

	shipment, err := h.shipments.StatusPatch(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

// Batch handles POST /shipments/batch.
func (h *ShipmentHandler) Batch(c *gin.Context) {
	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}

	count, err := h.shipments.Batch(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// ListPayments handles GET /shipments/:id/payments.
func (h *ShipmentHandler) ListPayments(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	rows, err := h.payments.ListPayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Archive handles POST /maintenance/archive. Admin only; the retention window
// can be overridden per call.
func (h *ShipmentHandler) Archive(c *gin.Context) {
	if !middleware.AuthFrom(c).Admin {
		c.JSON(http.StatusForbidden, gin.H{"message": msgAdminOnly})
		return
	}

	var req struct {
		RetentionDays int `json:"retention_days"`
	}
	// Body is optional; ignore parse errors and use the configured window.
	_ = c.ShouldBindJSON(&req)

	days := req.RetentionDays
	if days <= 0 {
		days = h.archiveRetentionDays
	}

	archived, err := h.shipments.ArchiveSettled(c.Request.Context(), days)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "archived": archived})
}
