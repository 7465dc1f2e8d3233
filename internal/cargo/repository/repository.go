package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories bundles the cargo repositories for wiring.
type Repositories struct {
	Shipment *ShipmentRepository
	Payment  *PaymentRepository
	Pin      *PinRepository
	Content  *ContentRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Shipment: NewShipmentRepository(db),
		Payment:  NewPaymentRepository(db),
		Pin:      NewPinRepository(db),
		Content:  NewContentRepository(db),
	}
}

// forUpdate applies a row lock on dialects that support it. SQLite has no
// SELECT ... FOR UPDATE; its single-writer transactions cover the same risk.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
