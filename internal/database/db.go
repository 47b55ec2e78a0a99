package database

import (
	"log"

	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connection established, migration complete.")
}

// Migrate runs schema migration for every managed model. Split out so tests
// can run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Domain{},
		&models.Store{},
		&models.Variant{},
		&models.Supplier{},
		&models.Customer{},
		&models.Vendor{},
		&models.InventoryItem{},
		&models.Transaction{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.SalesOrder{},
		&models.SalesOrderItem{},
		&models.ManualPayment{},
		&models.Feedback{},
		&models.AuditLog{},
		&models.WebhookEvent{},
	)
}
