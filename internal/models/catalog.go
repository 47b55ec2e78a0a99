package models

// Catalog entities all share the name/description shape. Name uniqueness is
// per tenant and checked in the handlers before insert.

type Category struct {
	Base
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

type Domain struct {
	Base
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

type Store struct {
	Base
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

type Variant struct {
	Base
	Name        string `gorm:"size:100;not null;index" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}
