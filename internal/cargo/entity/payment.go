package entity

import "time"

// Payment is one append-only ledger entry. Rows are never updated or deleted
// individually; they only cascade away with their shipment.
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ShipmentID uint      `json:"shipment_id" gorm:"not null;index"`
	Amount     int64     `json:"amount" gorm:"not null"`
	Method     string    `json:"method" gorm:"size:50;default:cash"`
	CreatedAt  time.Time `json:"created_at"`
}
