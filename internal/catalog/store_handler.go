package catalog

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

var storeSearchCols = []string{"name", "description"}

type CreateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// POST /api/stores
func CreateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		taken, err := listing.ColumnTaken[models.Store](userID, "name", body.Name, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check store name")
		}
		if taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A store with this name already exists",
				"field": "name",
			})
		}

		store := models.Store{
			Base:        models.Base{UserID: userID, Status: models.StatusActive},
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
		}

		if err := database.DB.Create(&store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create store")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "store",
			EntityID:    store.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Store created: %s", store.Name),
			After:       store,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(store)
	}
}

// PUT /api/stores/:id
func UpdateStoreHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		store, err := listing.FindOwned[models.Store](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Store not found")
		}
		beforeJSON, _ := json.Marshal(store)

		var body UpdateStoreRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			taken, err := listing.ColumnTaken[models.Store](userID, "name", name, store.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check store name")
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "A store with this name already exists",
					"field": "name",
				})
			}
			store.Name = name
		}
		if body.Description != nil {
			store.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(store).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update store")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "store",
			EntityID:    store.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Store updated: %s", store.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       store,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(store)
	}
}

func ListStoresHandler() fiber.Handler {
	return listing.ListHandler[models.Store](storeSearchCols)
}

func GetStoreHandler() fiber.Handler {
	return listing.GetHandler[models.Store]()
}

func ArchiveStoreHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Store]("store", models.StatusArchived)
}

func RestoreStoreHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Store]("store", models.StatusActive)
}

func ExportStoresHandler() fiber.Handler {
	return listing.ExportHandler[models.Store]("stores", storeSearchCols,
		[]string{"Name", "Description", "Status", "Created At"},
		func(x models.Store) []string {
			return []string{x.Name, x.Description, string(x.Status), x.CreatedAt.Format("2006-01-02")}
		})
}
