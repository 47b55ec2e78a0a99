package models

import "time"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	Plan                 Plan   `gorm:"size:20;not null;default:free"`
	StripeCustomerID     string `gorm:"size:100;index"`
	StripeSubscriptionID string `gorm:"size:100;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
