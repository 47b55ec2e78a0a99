package models

import "time"

type PurchaseOrder struct {
	Base
	VendorID  uint   `gorm:"index;not null" json:"vendor_id"`
	Reference string `gorm:"size:100;index" json:"reference"`

	// Sum over items of quantity * unit_cost, computed at write time.
	TotalCost float64 `gorm:"not null;default:0" json:"total_cost"`

	ReceivedAt *time.Time `json:"received_at"`

	Items []PurchaseOrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type PurchaseOrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	PurchaseOrderID uint    `gorm:"index;not null" json:"-"`
	ItemID          uint    `gorm:"index;not null" json:"item_id"`
	StoreID         *uint   `gorm:"index" json:"store_id"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	UnitCost        float64 `gorm:"not null" json:"unit_cost"`
}

type SalesOrder struct {
	Base
	CustomerID uint   `gorm:"index;not null" json:"customer_id"`
	Reference  string `gorm:"size:100;index" json:"reference"`

	TotalAmount float64 `gorm:"not null;default:0" json:"total_amount"`

	FulfilledAt *time.Time `json:"fulfilled_at"`

	Items []SalesOrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

type SalesOrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SalesOrderID uint    `gorm:"index;not null" json:"-"`
	ItemID       uint    `gorm:"index;not null" json:"item_id"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	UnitPrice    float64 `gorm:"not null" json:"unit_price"`
}
