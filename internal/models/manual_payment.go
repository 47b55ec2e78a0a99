package models

import "time"

type ManualPayment struct {
	Base
	Amount    float64    `gorm:"not null" json:"amount"`
	Method    string     `gorm:"size:50" json:"method"`
	Reference string     `gorm:"size:100;index" json:"reference"`
	Notes     string     `gorm:"size:500" json:"notes"`
	PaidAt    *time.Time `json:"paid_at"`
}
