package models

type Feedback struct {
	Base
	Subject string `gorm:"size:150" json:"subject"`
	Message string `gorm:"size:2000;not null" json:"message"`
	Rating  int    `gorm:"not null;default:0" json:"rating"`
}
