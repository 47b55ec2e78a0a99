package auth

import (
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// POST /api/auth/delete-account
// The one scoped power action that hard-deletes: removes every row the
// tenant owns plus the user itself, in a single transaction. Requires the
// password to be re-entered.
func DeleteAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := CurrentUser(c)
		if err != nil {
			return err
		}

		var body DeleteAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong password")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("purchase_order_id IN (SELECT id FROM purchase_orders WHERE user_id = ?)", userID).
				Delete(&models.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("sales_order_id IN (SELECT id FROM sales_orders WHERE user_id = ?)", userID).
				Delete(&models.SalesOrderItem{}).Error; err != nil {
				return err
			}

			owned := []interface{}{
				&models.Transaction{},
				&models.PurchaseOrder{},
				&models.SalesOrder{},
				&models.InventoryItem{},
				&models.Category{},
				&models.Domain{},
				&models.Store{},
				&models.Variant{},
				&models.Supplier{},
				&models.Customer{},
				&models.Vendor{},
				&models.ManualPayment{},
				&models.Feedback{},
				&models.AuditLog{},
			}
			for _, m := range owned {
				if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
					return err
				}
			}

			return tx.Delete(&models.User{}, "id = ?", userID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete account")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
