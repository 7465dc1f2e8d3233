package service

import (
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/events"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles the cargo services for wiring.
type Services struct {
	Shipment *ShipmentService
	Payment  *PaymentService
	Pin      *PinService
	Content  *ContentService
	Stats    *StatsService
}

// NewServices wires repositories, the shared PIN secret, the event publisher
// and the optional redis cache into the service set.
func NewServices(db *gorm.DB, repos *repository.Repositories, pinSecret string, publisher events.Publisher, cache *redis.Client, statsTTL time.Duration, logger *zap.Logger) *Services {
	pins := NewPinService(repos.Pin, pinSecret)
	return &Services{
		Shipment: NewShipmentService(db, repos.Shipment, pins, publisher, logger),
		Payment:  NewPaymentService(db, repos.Shipment, repos.Payment, publisher, logger),
		Pin:      pins,
		Content:  NewContentService(repos.Content),
		Stats:    NewStatsService(repos.Shipment, cache, statsTTL, logger),
	}
}
