package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"inventorylite-backend/internal/audit"
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statusHolder is satisfied by every model embedding models.Base.
type statusHolder interface {
	GetStatus() models.Status
	MarkStatus(models.Status)
	GetID() uint
}

// FindOwned loads one row by id within the tenant's scope. An unparseable
// id reads as a missing row rather than a driver type error.
func FindOwned[T any](db *gorm.DB, userID uint, id string) (*T, error) {
	rowID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var row T
	if err := db.Where("user_id = ? AND id = ?", userID, rowID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetHandler serves the single-row fetch used to pre-fill edit forms.
func GetHandler[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		row, err := FindOwned[T](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Record not found")
		}
		return c.JSON(row)
	}
}

// StatusPatchHandler builds the archive and restore endpoints: it flips the
// soft-delete flag and nothing else. Archiving an archived row (or restoring
// an active one) is a conflict, so double-submits surface instead of being
// silently absorbed.
func StatusPatchHandler[T any](entityType string, to models.Status) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		row, err := FindOwned[T](database.DB, userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Record not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load record")
		}

		holder, ok := any(row).(statusHolder)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "Entity does not support archiving")
		}

		if holder.GetStatus() == to {
			if to == models.StatusArchived {
				return fiber.NewError(fiber.StatusConflict, "Record is already archived")
			}
			return fiber.NewError(fiber.StatusConflict, "Record is already active")
		}

		beforeJSON, _ := json.Marshal(row)

		if err := database.DB.Model(row).Update("status", to).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update record status")
		}
		holder.MarkStatus(to)

		action := models.AuditActionArchive
		if to == models.StatusActive {
			action = models.AuditActionRestore
		}
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entityType,
			EntityID:    holder.GetID(),
			Action:      action,
			Description: fmt.Sprintf("%s %s #%d", action, entityType, holder.GetID()),
			Before:      json.RawMessage(beforeJSON),
			After:       row,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(row)
	}
}

// IsDuplicate reports whether err carries a unique-constraint signature.
// Covers both the Postgres and SQLite message shapes.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
