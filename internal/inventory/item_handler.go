package inventory

import (
	"encoding/json"
	"fmt"
	"strings"

	"inventorylite-backend/internal/audit"
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/listing"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var itemSearchCols = []string{"name", "sku"}

type CreateItemRequest struct {
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CategoryID uint    `json:"category_id"`
	StoreID    *uint   `json:"store_id"`
}

type UpdateItemRequest struct {
	Name       *string  `json:"name"`
	SKU        *string  `json:"sku"`
	UnitPrice  *float64 `json:"unit_price"`
	CategoryID *uint    `json:"category_id"`
	StoreID    *uint    `json:"store_id"`
}

// ownedExists checks a foreign-key target inside the tenant's scope.
func ownedExists[T any](userID uint, id uint) (bool, error) {
	var count int64
	err := database.DB.Model(new(T)).Where("user_id = ? AND id = ?", userID, id).Count(&count).Error
	return count > 0, err
}

// POST /api/items
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantity cannot be negative")
		}
		if body.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Unit price cannot be negative")
		}
		if body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category is required")
		}

		ok, err := ownedExists[models.Category](userID, body.CategoryID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check category")
		}
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Category does not exist")
		}
		if body.StoreID != nil {
			ok, err := ownedExists[models.Store](userID, *body.StoreID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check store")
			}
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Store does not exist")
			}
		}

		if body.SKU != "" {
			taken, err := listing.ColumnTaken[models.InventoryItem](userID, "sku", body.SKU, 0)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check SKU")
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "An item with this SKU already exists",
					"field": "sku",
				})
			}
		}

		item := models.InventoryItem{
			Base:       models.Base{UserID: userID, Status: models.StatusActive},
			Name:       body.Name,
			SKU:        body.SKU,
			Quantity:   body.Quantity,
			UnitPrice:  body.UnitPrice,
			CategoryID: body.CategoryID,
			StoreID:    body.StoreID,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create item")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Item created: %s", item.Name),
			After:       item,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/items/:id
// Quantity is deliberately absent here: stock levels only move through
// transactions so the running-quantity snapshots stay truthful.
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		item, err := listing.FindOwned[models.InventoryItem](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}
		beforeJSON, _ := json.Marshal(item)

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			item.Name = name
		}
		if body.SKU != nil {
			sku := strings.TrimSpace(*body.SKU)
			if sku != "" {
				taken, err := listing.ColumnTaken[models.InventoryItem](userID, "sku", sku, item.ID)
				if err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Could not check SKU")
				}
				if taken {
					return c.Status(fiber.StatusConflict).JSON(fiber.Map{
						"error": "An item with this SKU already exists",
						"field": "sku",
					})
				}
			}
			item.SKU = sku
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Unit price cannot be negative")
			}
			item.UnitPrice = *body.UnitPrice
		}
		if body.CategoryID != nil {
			ok, err := ownedExists[models.Category](userID, *body.CategoryID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check category")
			}
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Category does not exist")
			}
			item.CategoryID = *body.CategoryID
		}
		if body.StoreID != nil {
			ok, err := ownedExists[models.Store](userID, *body.StoreID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check store")
			}
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Store does not exist")
			}
			item.StoreID = body.StoreID
		}

		if err := database.DB.Save(item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update item")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "inventory_item",
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Item updated: %s", item.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       item,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(item)
	}
}

func ListItemsHandler() fiber.Handler {
	return listing.ListHandler[models.InventoryItem](itemSearchCols)
}

func GetItemHandler() fiber.Handler {
	return listing.GetHandler[models.InventoryItem]()
}

func ArchiveItemHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.InventoryItem]("inventory_item", models.StatusArchived)
}

func RestoreItemHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.InventoryItem]("inventory_item", models.StatusActive)
}

// GET /api/items/export?format=xlsx|pdf
func ExportItemsHandler() fiber.Handler {
	return listing.ExportHandler[models.InventoryItem]("inventory-items", itemSearchCols,
		[]string{"Name", "SKU", "Quantity", "Unit Price", "Status"},
		func(x models.InventoryItem) []string {
			return []string{
				x.Name,
				x.SKU,
				fmt.Sprintf("%d", x.Quantity),
				fmt.Sprintf("%.2f", x.UnitPrice),
				string(x.Status),
			}
		})
}
