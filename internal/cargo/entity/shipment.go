package entity

import "time"

// Payment status values. "received" and "outgoing" are legacy values still
// present in old rows; "archived" marks rows past the retention window.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusDelivered = "delivered"
	StatusDelayed   = "delayed"
	StatusCanceled  = "canceled"
	StatusReceived  = "received"
	StatusOutgoing  = "outgoing"
	StatusArchived  = "archived"
)

// Delivery sub-state, distinct from the payment status.
const (
	DeliveryWarehouse = "warehouse"
	DeliveryOngoing   = "delivery"
	DeliveryDelivered = "delivered"
	DeliveryDelayed   = "delayed"
	DeliveryCanceled  = "canceled"
)

// Location values are free text by convention.
const (
	LocationWarehouse = "warehouse"
	LocationDelivery  = "delivery"
)

// Shipment is one tracked parcel with its commercial and logistical state.
// balance is stored signed and must equal price - paid_amount except while a
// "pending" reset is restoring it to the full price.
type Shipment struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Barcode        string     `json:"barcode" gorm:"not null;index"`
	Phone          string     `json:"phone" gorm:"index"`
	CustomerName   string     `json:"customer_name"`
	Quantity       int        `json:"quantity" gorm:"default:1"`
	Weight         float64    `json:"weight" gorm:"default:0"`
	Price          int64      `json:"price" gorm:"default:0"`
	PaidAmount     int64      `json:"paid_amount" gorm:"default:0"`
	Balance        int64      `json:"balance" gorm:"default:0"`
	Status         string     `json:"status" gorm:"size:20;default:received;index"`
	DeliveryStatus string     `json:"delivery_status" gorm:"size:20"`
	Location       string     `json:"location" gorm:"size:50;default:warehouse;index"`
	ArrivalDate    *DateOnly  `json:"arrival_date" gorm:"type:date;index"`
	Notes          string     `json:"notes"`
	DeliveryNote   string     `json:"delivery_note"`
	Courier        string     `json:"courier"`
	DeliveredAt    *time.Time `json:"delivered_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// PinPlain is attached at read time for the back office; never stored here.
	PinPlain string `json:"pin_plain,omitempty" gorm:"-"`

	Payments []Payment `json:"-" gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

// Settled reports whether the parcel is delivered and fully paid.
func (s *Shipment) Settled() bool {
	return s.DeliveryStatus == DeliveryDelivered && s.Balance <= 0
}
