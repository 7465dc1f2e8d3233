package repository

import (
	"context"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"gorm.io/gorm"
)

// PaymentRepository owns the append-only payment ledger. There is no update
// or per-row delete on purpose; reversal happens at the shipment level.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListByShipment returns the ledger newest-first.
func (r *PaymentRepository) ListByShipment(ctx context.Context, shipmentID uint) ([]entity.Payment, error) {
	var rows []entity.Payment
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// SumByShipment totals the ledger for reconciliation checks.
func (r *PaymentRepository) SumByShipment(ctx context.Context, shipmentID uint) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("shipment_id = ?", shipmentID).
		Select("COALESCE(SUM(amount),0)").
		Scan(&sum).Error
	return sum, err
}
