package models

import "time"

// WebhookEvent is the processed-event log for gateway callbacks, keyed by the
// gateway payment id. The gateway does not guarantee exactly-once delivery;
// a conflicting insert means the event was already handled.
type WebhookEvent struct {
	PaymentID         string    `gorm:"column:payment_id;primaryKey"`
	EventType         string    `gorm:"column:event_type;not null"`
	Action            string    `gorm:"column:action;not null"`
	ExternalReference string    `gorm:"column:external_reference;not null;index"`
	ProcessedAt       time.Time `gorm:"column:processed_at;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}
