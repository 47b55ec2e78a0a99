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

var salesOrderSearchCols = []string{"reference"}

type SalesOrderItemInput struct {
	ItemID    uint    `json:"item_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type CreateSalesOrderRequest struct {
	CustomerID uint                  `json:"customer_id"`
	Reference  string                `json:"reference"`
	Items      []SalesOrderItemInput `json:"items"`
}

// POST /api/sales-orders
func CreateSalesOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateSalesOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Customer is required")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one order item is required")
		}

		var customerCount int64
		if err := database.DB.Model(&models.Customer{}).
			Where("user_id = ? AND id = ?", userID, body.CustomerID).
			Count(&customerCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check customer")
		}
		if customerCount == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Customer does not exist")
		}

		order := models.SalesOrder{
			Base:       models.Base{UserID: userID, Status: models.StatusActive},
			CustomerID: body.CustomerID,
			Reference:  strings.TrimSpace(body.Reference),
		}

		for _, in := range body.Items {
			if in.ItemID == 0 || in.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Each order item needs an item and a positive quantity")
			}
			if in.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Unit price cannot be negative")
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

			order.Items = append(order.Items, models.SalesOrderItem{
				ItemID:    in.ItemID,
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
			})
			order.TotalAmount += float64(in.Quantity) * in.UnitPrice
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sales order")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sales order created: %s (%d items)", order.Reference, len(order.Items)),
			After:       order,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// PATCH /api/sales-orders/:id/fulfill
// Posts one "out" stock transaction per line. Any line with insufficient
// stock rolls the whole fulfillment back.
func FulfillSalesOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var order models.SalesOrder
		if err := database.DB.Preload("Items").
			Where("user_id = ? AND id = ?", userID, c.Params("id")).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sales order not found")
		}

		if order.FulfilledAt != nil {
			return fiber.NewError(fiber.StatusConflict, "Sales order was already fulfilled")
		}
		if order.Status == models.StatusArchived {
			return fiber.NewError(fiber.StatusConflict, "Archived sales orders cannot be fulfilled")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for _, line := range order.Items {
				note := fmt.Sprintf("sales order %s", order.Reference)
				if _, err := inventory.ApplyTransaction(tx, userID, line.ItemID, models.DirectionOut, line.Quantity, note); err != nil {
					return err
				}
			}
			now := time.Now()
			order.FulfilledAt = &now
			return tx.Model(&order).Update("fulfilled_at", now).Error
		})
		if err != nil {
			switch {
			case errors.Is(err, inventory.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusConflict, "Not enough stock to fulfill this order")
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusConflict, "An order line points at a missing item")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Could not fulfill sales order")
			}
		}

		dashboard.Invalidate(c.UserContext(), userID)

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sales order fulfilled: %s", order.Reference),
			After:       order,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(order)
	}
}

// GET /api/sales-orders
func ListSalesOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p := listing.Parse(c)
		q := database.DB.Model(&models.SalesOrder{}).
			Preload("Items").
			Where("user_id = ?", userID)

		res, err := listing.Run[models.SalesOrder](q, salesOrderSearchCols, p)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales orders")
		}
		return c.JSON(res)
	}
}

// GET /api/sales-orders/:id
func GetSalesOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var order models.SalesOrder
		if err := database.DB.Preload("Items").
			Where("user_id = ? AND id = ?", userID, c.Params("id")).
			First(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sales order not found")
		}
		return c.JSON(order)
	}
}

func ArchiveSalesOrderHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.SalesOrder]("sales_order", models.StatusArchived)
}

func RestoreSalesOrderHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.SalesOrder]("sales_order", models.StatusActive)
}
