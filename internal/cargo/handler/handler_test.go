package handler

import (
	"testing"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/testutil"
	"github.com/bbaku36/TUTUYU-Frontend/internal/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupCargoAPI wires the full route table against an in-memory database,
// mirroring the production router minus gzip and logging.
func setupCargoAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := service.NewServices(db, repos, testutil.PinSecret, events.Nop{}, nil, 0, zap.NewNop())
	h := NewHandlers(svcs, repos, 30, zap.NewNop())

	r := testutil.SetupRouter()
	r.GET("/health", h.Health.Check)

	shipments := r.Group("/shipments")
	shipments.GET("", h.Shipment.List)
	shipments.POST("", h.Shipment.Create)
	shipments.POST("/batch", h.Shipment.Batch)
	shipments.GET("/:id", h.Shipment.Get)
	shipments.PUT("/:id", h.Shipment.Update)
	shipments.PATCH("/:id/status", h.Shipment.UpdateStatus)
	shipments.GET("/:id/payments", h.Shipment.ListPayments)

	r.POST("/payments", h.Payment.Create)
	r.GET("/stats/summary", h.Stats.Summary)
	r.GET("/content", h.Content.Get)
	r.PUT("/content", h.Content.Put)
	r.POST("/pins/ensure", h.Pin.Ensure)
	r.POST("/pins/lookup", h.Pin.Lookup)
	r.POST("/maintenance/archive", h.Shipment.Archive)

	return r, db
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupCargoAPI(t)
	w := testutil.DoRequest(r, "GET", "/health", nil, "")
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := testutil.ParseResponse(w)
	if body["database"] != "ok" {
		t.Errorf("database = %v, want ok", body["database"])
	}
}
