package models

type InventoryItem struct {
	Base
	Name      string  `gorm:"size:100;not null;index" json:"name"`
	SKU       string  `gorm:"size:50;index" json:"sku"`
	Quantity  int     `gorm:"not null;default:0" json:"quantity"`
	UnitPrice float64 `gorm:"not null;default:0" json:"unit_price"`

	CategoryID uint  `gorm:"index;not null" json:"category_id"`
	StoreID    *uint `gorm:"index" json:"store_id"`
}
