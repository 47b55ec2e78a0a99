package models

import "time"

// WebhookEvent records Stripe event ids that were already processed so
// provider retries stay idempotent.
type WebhookEvent struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   string    `gorm:"size:100;uniqueIndex;not null"`
	Type      string    `gorm:"size:100"`
	CreatedAt time.Time
}
