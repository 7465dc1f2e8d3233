package handler

import (
	"net/http"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContentHandler serves the landing-page sections blob.
type ContentHandler struct {
	content *service.ContentService
	logger  *zap.Logger
}

func NewContentHandler(content *service.ContentService, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger}
}

// Get handles GET /content.
func (h *ContentHandler) Get(c *gin.Context) {
	sections, err := h.content.GetSections(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// Put handles PUT /content, replacing the blob wholesale.
func (h *ContentHandler) Put(c *gin.Context) {
	var req struct {
		Sections entity.JSONBArray `json:"sections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadRequest})
		return
	}

	if err := h.content.SaveSections(c.Request.Context(), req.Sections); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": req.Sections})
}
