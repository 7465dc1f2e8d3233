package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PinSecret is the shared PIN/admin secret used across tests.
const PinSecret = "test-pin-secret"

var dbSeq atomic.Int64

// SetupTestDB opens an isolated in-memory sqlite database with the cargo
// schema migrated. The database lives until the test's connections close.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:cargo_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	// Single connection keeps the shared-cache database alive and serializes
	// writers the way sqlite expects.
	sqlDB.SetMaxOpenConns(1)
	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(
		&entity.Shipment{},
		&entity.Payment{},
		&entity.CustomerPin{},
		&entity.SiteContent{},
	); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupRouter creates a gin test router with the auth-context middleware the
// handlers depend on.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AuthContext(PinSecret))
	return r
}

// DoRequest executes an HTTP request against the test router. A non-empty
// adminPin rides in the x-admin-pin header.
func DoRequest(r *gin.Engine, method, path string, body interface{}, adminPin string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if adminPin != "" {
		req.Header.Set("x-admin-pin", adminPin)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedShipment inserts a shipment with the given payment fields and today's
// arrival date.
func SeedShipment(t *testing.T, db *gorm.DB, barcode, phone string, price, paid int64) *entity.Shipment {
	t.Helper()
	arrival := entity.NewDateOnly(time.Now())
	shipment := &entity.Shipment{
		Barcode:        barcode,
		Phone:          phone,
		Quantity:       1,
		Price:          price,
		PaidAmount:     paid,
		Balance:        price - paid,
		Status:         entity.StatusReceived,
		DeliveryStatus: entity.DeliveryWarehouse,
		Location:       entity.LocationWarehouse,
		ArrivalDate:    &arrival,
	}
	if err := db.Create(shipment).Error; err != nil {
		t.Fatalf("Failed to seed shipment: %v", err)
	}
	return shipment
}
