package entity

import "time"

// ContentKeySections is the only key the marketing page uses today.
const ContentKeySections = "sections"

// SiteContent is an opaque key -> JSON document with last-write-wins semantics.
type SiteContent struct {
	Key       string     `json:"key" gorm:"primaryKey;size:64"`
	Payload   JSONBArray `json:"payload" gorm:"type:jsonb"`
	UpdatedAt time.Time  `json:"updated_at"`
}
