package handler

import (
	"net/http"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/bbaku36/TUTUYU-Frontend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PinHandler serves the delivery-PIN routes. Ensure is open so the tracking
// page can provision a PIN; lookup exposes the plaintext and is admin only.
type PinHandler struct {
	pins   *service.PinService
	logger *zap.Logger
}

func NewPinHandler(pins *service.PinService, logger *zap.Logger) *PinHandler {
	return &PinHandler{pins: pins, logger: logger}
}

type pinRequest struct {
	Phone string `json:"phone"`
}

// Ensure handles POST /pins/ensure. The plaintext PIN is included only for
// admin callers.
func (h *PinHandler) Ensure(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}
	if service.NormalizePhone(req.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid phone"})
		return
	}

	res, err := h.pins.EnsurePin(c.Request.Context(), req.Phone, middleware.AuthFrom(c).Admin)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Lookup handles POST /pins/lookup for staff reading a PIN out to a customer.
func (h *PinHandler) Lookup(c *gin.Context) {
	if !middleware.AuthFrom(c).Admin {
		c.JSON(http.StatusForbidden, gin.H{"message": msgAdminOnly})
		return
	}

	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}
	if service.NormalizePhone(req.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid phone"})
		return
	}

	res, err := h.pins.EnsurePin(c.Request.Context(), req.Phone, true)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
