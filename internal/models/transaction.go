package models

import "time"

type TransactionDirection string

const (
	DirectionIn  TransactionDirection = "in"
	DirectionOut TransactionDirection = "out"
)

// Transaction is an immutable stock movement. CurrentItemQuantity is the
// owning item's running quantity after this movement applied; it is computed
// inside the insert transaction and never recomputed afterwards.
type Transaction struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"-"`

	ItemID    uint                 `gorm:"index;not null" json:"item_id"`
	Direction TransactionDirection `gorm:"size:10;not null" json:"direction"`
	Quantity  int                  `gorm:"not null" json:"quantity"`

	CurrentItemQuantity int `gorm:"not null" json:"current_item_quantity"`

	Note string `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
}
