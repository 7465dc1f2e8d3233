package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/events"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgAmountPositive = "Төлбөрийн дүн > 0 байх ёстой"

// PaymentService records ledger entries and keeps the owning shipment's
// aggregate payment fields in sync.
type PaymentService struct {
	db        *gorm.DB
	shipments *repository.ShipmentRepository
	payments  *repository.PaymentRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewPaymentService(db *gorm.DB, shipments *repository.ShipmentRepository, payments *repository.PaymentRepository, publisher events.Publisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{db: db, shipments: shipments, payments: payments, publisher: publisher, logger: logger}
}

// AddPayment appends a ledger row and reconciles the shipment in the same
// transaction: paid_amount grows by the amount, the balance is recomputed
// from the price, and the status flips to paid once the balance reaches zero.
func (s *PaymentService) AddPayment(ctx context.Context, shipmentID uint, amount int64, method string) (*entity.Shipment, []entity.Payment, error) {
	if amount <= 0 {
		return nil, nil, NewValidationError(msgAmountPositive)
	}
	if method == "" {
		method = "cash"
	}

	var updated *entity.Shipment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		shipments := s.shipments.WithTx(tx)
		payments := s.payments.WithTx(tx)

		shipment, err := shipments.FindByIDLocked(ctx, shipmentID)
		if err != nil {
			return err
		}

		if err := payments.Create(ctx, &entity.Payment{
			ShipmentID: shipmentID,
			Amount:     amount,
			Method:     method,
		}); err != nil {
			return err
		}

		shipment.PaidAmount += amount
		shipment.Balance = shipment.Price - shipment.PaidAmount
		if shipment.Balance <= 0 {
			shipment.Status = entity.StatusPaid
		}

		if err := shipments.Update(ctx, shipment); err != nil {
			return err
		}
		updated = shipment
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	all, err := s.payments.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, nil, err
	}

	evt := events.ShipmentEvent{
		Type:           events.TypePaymentRecorded,
		ShipmentID:     updated.ID,
		Status:         updated.Status,
		DeliveryStatus: updated.DeliveryStatus,
		Location:       updated.Location,
		Balance:        updated.Balance,
		At:             time.Now(),
	}
	if err := s.publisher.Publish(ctx, strconv.FormatUint(uint64(updated.ID), 10), evt); err != nil {
		s.logger.Warn("publish payment event failed", zap.Error(err))
	}

	return updated, all, nil
}

// ListPayments returns the shipment's ledger newest-first.
func (s *PaymentService) ListPayments(ctx context.Context, shipmentID uint) ([]entity.Payment, error) {
	return s.payments.ListByShipment(ctx, shipmentID)
}
