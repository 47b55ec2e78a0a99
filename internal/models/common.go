package models

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	// StatusAll is the list-filter sentinel, never stored.
	StatusAll Status = "all"
)

// Base carries the shape every managed entity shares: server-generated id,
// tenant scope, soft-delete status and timestamps. Records are archived,
// never hard-deleted (the only exception is account deletion).
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"-"`
	Status    Status    `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) GetStatus() Status   { return b.Status }
func (b *Base) MarkStatus(s Status) { b.Status = s }
func (b *Base) GetID() uint         { return b.ID }
