package events

import "time"

// Shipment lifecycle event types.
const (
	TypeCreated         = "created"
	TypeStatusChanged   = "status_changed"
	TypePaymentRecorded = "payment_recorded"
	TypeArchived        = "archived"
)

// ShipmentEvent is the payload written to the shipment-events topic.
type ShipmentEvent struct {
	Type           string    `json:"type"`
	ShipmentID     uint      `json:"shipment_id"`
	Status         string    `json:"status"`
	DeliveryStatus string    `json:"delivery_status"`
	Location       string    `json:"location"`
	Balance        int64     `json:"balance"`
	At             time.Time `json:"at"`
}
