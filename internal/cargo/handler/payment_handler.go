package handler

import (
	"net/http"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the payment intake route.
type PaymentHandler struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

func NewPaymentHandler(payments *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// Create handles POST /payments. The response carries the reconciled shipment
// together with its full ledger so the UI refreshes in one round trip.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req struct {
		ShipmentID uint   `json:"shipment_id"`
		Amount     int64  `json:"amount"`
		Method     string `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}

	shipment, ledger, err := h.payments.AddPayment(c.Request.Context(), req.ShipmentID, req.Amount, req.Method)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"shipment": shipment,
		"payments": ledger,
	})
}
