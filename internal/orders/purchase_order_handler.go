package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inventorylite-backend/internal/audit"
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/dashboard"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/inventory"
	"inventorylite-backend/internal/listing"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var purchaseOrderSearchCols = []string{"reference"}

type PurchaseOrderItemInput struct {
	ItemID   uint    `json:"item_id"`
	StoreID  *uint   `json:"store_id"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
}

type CreatePurchaseOrderRequest struct {
	VendorID  uint                     `json:"vendor_id"`
	Reference string                   `json:"reference"`
	Items     []PurchaseOrderItemInput `json:"items"`
}

// POST /api/purchase-orders
// Header and line items land in one transaction; the total is computed here,
// never taken from the client.
func CreatePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreatePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.VendorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Vendor is required")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one order item is required")
		}

		var vendorCount int64
		if err := database.DB.Model(&models.Vendor{}).
			Where("user_id = ? AND id = ?", userID, body.VendorID).
			Count(&vendorCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check vendor")
		}
		if vendorCount == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Vendor does not exist")
		}

		order := models.PurchaseOrder{
			Base:      models.Base{UserID: userID, Status: models.StatusActive},
			VendorID:  body.VendorID,
			Reference: strings.TrimSpace(body.Reference),
		}

		for _, in := range body.Items {
			if in.ItemID == 0 || in.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Each order item needs an item and a positive quantity")
			}
			if in.UnitCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Unit cost cannot be negative")
			}

			var itemCount int64
			if err := database.DB.Model(&models.InventoryItem{}).
				Where("user_id = ? AND id = ?", userID, in.ItemID).
				Count(&itemCount).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check order item")
			}
			if itemCount == 0 {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Item #%d does not exist", in.ItemID))
			}

			order.Items = append(order.Items, models.PurchaseOrderItem{
				ItemID:   in.ItemID,
				StoreID:  in.StoreID,
				Quantity: in.Quantity,
				UnitCost: in.UnitCost,
			})
			order.TotalCost += float64(in.Quantity) * in.UnitCost
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create purchase order")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Purchase order created: %s (%d items)", order.Reference, len(order.Items)),
			After:       order,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// PATCH /api/purchase-orders/:id/receive
// Posts one "in" stock transaction per line and stamps the order. Receiving
// twice is a conflict.
func ReceivePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var order models.PurchaseOrder
		if err := database.DB.Preload("Items").
			Where("user_id = ? AND id = ?", userID, c.Params("id")).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		if order.ReceivedAt != nil {
			return fiber.NewError(fiber.StatusConflict, "Purchase order was already received")
		}
		if order.Status == models.StatusArchived {
			return fiber.NewError(fiber.StatusConflict, "Archived purchase orders cannot be received")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, line := range order.Items {
				note := fmt.Sprintf("purchase order %s", order.Reference)
				if _, err := inventory.ApplyTransaction(tx, userID, line.ItemID, models.DirectionIn, line.Quantity, note); err != nil {
					return err
				}
			}
			now := time.Now()
			order.ReceivedAt = &now
			return tx.Model(&order).Update("received_at", now).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusConflict, "An order line points at a missing item")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not receive purchase order")
		}

		dashboard.Invalidate(c.UserContext(), userID)

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Purchase order received: %s", order.Reference),
			After:       order,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(order)
	}
}

// GET /api/purchase-orders
func ListPurchaseOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p := listing.Parse(c)
		q := database.DB.Model(&models.PurchaseOrder{}).
			Preload("Items").
			Where("user_id = ?", userID)

		res, err := listing.Run[models.PurchaseOrder](q, purchaseOrderSearchCols, p)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list purchase orders")
		}
		return c.JSON(res)
	}
}

// GET /api/purchase-orders/:id
func GetPurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var order models.PurchaseOrder
		if err := database.DB.Preload("Items").
			Where("user_id = ? AND id = ?", userID, c.Params("id")).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}
		return c.JSON(order)
	}
}

func ArchivePurchaseOrderHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.PurchaseOrder]("purchase_order", models.StatusArchived)
}

func RestorePurchaseOrderHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.PurchaseOrder]("purchase_order", models.StatusActive)
}
