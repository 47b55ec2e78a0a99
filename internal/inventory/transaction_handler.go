package inventory

import (
	"errors"
	"fmt"
	"strings"

	"inventorylite-backend/internal/audit"
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/dashboard"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidQuantity   = errors.New("transaction quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock for this transaction")
)

type CreateTransactionRequest struct {
	ItemID    uint                        `json:"item_id"`
	Direction models.TransactionDirection `json:"direction"`
	Quantity  int                         `json:"quantity"`
	Note      string                      `json:"note"`
}

// ApplyTransaction posts one stock movement inside tx: it adjusts the owning
// item's quantity and inserts the movement with the post-movement quantity
// snapshot. The snapshot is written exactly once, here, and never touched
// again. Order receiving/fulfillment goes through this same path.
func ApplyTransaction(tx *gorm.DB, userID, itemID uint, direction models.TransactionDirection, qty int, note string) (*models.Transaction, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if direction != models.DirectionIn && direction != models.DirectionOut {
		return nil, fmt.Errorf("unknown transaction direction %q", direction)
	}

	var item models.InventoryItem
	if err := tx.Where("user_id = ? AND id = ?", userID, itemID).First(&item).Error; err != nil {
		return nil, err
	}

	newQty := item.Quantity + qty
	if direction == models.DirectionOut {
		newQty = item.Quantity - qty
		if newQty < 0 {
			return nil, ErrInsufficientStock
		}
	}

	if err := tx.Model(&item).Update("quantity", newQty).Error; err != nil {
		return nil, err
	}

	movement := models.Transaction{
		UserID:              userID,
		ItemID:              itemID,
		Direction:           direction,
		Quantity:            qty,
		CurrentItemQuantity: newQty,
		Note:                strings.TrimSpace(note),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	return &movement, nil
}

// POST /api/transactions
func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Item is required")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantity must be positive")
		}

		var movement *models.Transaction
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			movement, err = ApplyTransaction(tx, userID, body.ItemID, body.Direction, body.Quantity, body.Note)
			return err
		})
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Item not found")
			case errors.Is(err, ErrInsufficientStock):
				return fiber.NewError(fiber.StatusConflict, "Not enough stock for this transaction")
			case errors.Is(err, ErrInvalidQuantity):
				return fiber.NewError(fiber.StatusBadRequest, "Quantity must be positive")
			default:
				if strings.Contains(err.Error(), "unknown transaction direction") {
					return fiber.NewError(fiber.StatusBadRequest, "Direction must be 'in' or 'out'")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Could not record transaction")
			}
		}

		dashboard.Invalidate(c.UserContext(), userID)

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "transaction",
			EntityID:    movement.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stock %s of %d on item #%d", movement.Direction, movement.Quantity, movement.ItemID),
			After:       movement,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(movement)
	}
}

// GET /api/transactions?item_id=&direction=&page=&page_size=
// Transactions are immutable history, so this list filters by item and
// direction instead of search text and has no archive state.
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		pageSize := c.QueryInt("page_size", 10)
		if pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		q := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
		if itemID := c.QueryInt("item_id", 0); itemID > 0 {
			q = q.Where("item_id = ?", itemID)
		}
		if direction := c.Query("direction"); direction == "in" || direction == "out" {
			q = q.Where("direction = ?", direction)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count transactions")
		}

		var rows []models.Transaction
		if err := q.Order("created_at DESC, id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		return c.JSON(fiber.Map{
			"rows":        rows,
			"total_count": total,
			"page":        page,
			"page_size":   pageSize,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		})
	}
}
