package repository

import (
	"context"
	"errors"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PinRepository owns customer_pins. Stored phones are always normalized to
// digits before writing, so suffix matching can use a plain LIKE.
type PinRepository struct {
	db *gorm.DB
}

func NewPinRepository(db *gorm.DB) *PinRepository {
	return &PinRepository{db: db}
}

// FindByShortKey returns the oldest row whose phone ends with the 8-digit
// short key, or ErrNotFound.
func (r *PinRepository) FindByShortKey(ctx context.Context, short string) (*entity.CustomerPin, error) {
	var pin entity.CustomerPin
	err := r.db.WithContext(ctx).
		Where("phone LIKE ?", "%"+short).
		Order("created_at ASC").
		First(&pin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pin, nil
}

// Upsert inserts or replaces the hash/plain pair keyed by phone.
func (r *PinRepository) Upsert(ctx context.Context, pin *entity.CustomerPin) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"pin_hash", "pin_plain"}),
		}).
		Create(pin).Error
}

// UpdatePin rewrites the secret material for an existing row (legacy rows
// that predate plaintext retention).
func (r *PinRepository) UpdatePin(ctx context.Context, phone, hash, plain string) error {
	return r.db.WithContext(ctx).Model(&entity.CustomerPin{}).
		Where("phone = ?", phone).
		Updates(map[string]interface{}{"pin_hash": hash, "pin_plain": plain}).Error
}
