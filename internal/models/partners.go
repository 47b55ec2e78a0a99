package models

// Suppliers, customers and vendors share the contact-card shape.

type Supplier struct {
	Base
	Name    string `gorm:"size:100;not null;index" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
}

type Customer struct {
	Base
	Name    string `gorm:"size:100;not null;index" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
}

type Vendor struct {
	Base
	Name    string `gorm:"size:100;not null;index" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
}
