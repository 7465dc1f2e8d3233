package entity

import "time"

// CustomerPin holds the 4-digit delivery PIN for one normalized phone number.
// pin_plain is retained for staff lookup; pin_hash covers rows created before
// plaintext retention existed. Matching across records uses the last 8 digits
// of the phone to tolerate country-code drift.
type CustomerPin struct {
	Phone     string    `json:"phone" gorm:"primaryKey;size:32"`
	PinHash   string    `json:"-" gorm:"not null;size:64"`
	PinPlain  string    `json:"-" gorm:"size:8"`
	CreatedAt time.Time `json:"created_at"`
}
