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

var variantSearchCols = []string{"name", "description"}

type CreateVariantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateVariantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// POST /api/variants
func CreateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateVariantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		taken, err := listing.ColumnTaken[models.Variant](userID, "name", body.Name, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check variant name")
		}
		if taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A variant with this name already exists",
				"field": "name",
			})
		}

		variant := models.Variant{
			Base:        models.Base{UserID: userID, Status: models.StatusActive},
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
		}

		if err := database.DB.Create(&variant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create variant")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "variant",
			EntityID:    variant.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Variant created: %s", variant.Name),
			After:       variant,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(variant)
	}
}

// PUT /api/variants/:id
func UpdateVariantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		variant, err := listing.FindOwned[models.Variant](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Variant not found")
		}
		beforeJSON, _ := json.Marshal(variant)

		var body UpdateVariantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			taken, err := listing.ColumnTaken[models.Variant](userID, "name", name, variant.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check variant name")
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "A variant with this name already exists",
					"field": "name",
				})
			}
			variant.Name = name
		}
		if body.Description != nil {
			variant.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(variant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update variant")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "variant",
			EntityID:    variant.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Variant updated: %s", variant.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       variant,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(variant)
	}
}

func ListVariantsHandler() fiber.Handler {
	return listing.ListHandler[models.Variant](variantSearchCols)
}

func GetVariantHandler() fiber.Handler {
	return listing.GetHandler[models.Variant]()
}

func ArchiveVariantHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Variant]("variant", models.StatusArchived)
}

func RestoreVariantHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Variant]("variant", models.StatusActive)
}

func ExportVariantsHandler() fiber.Handler {
	return listing.ExportHandler[models.Variant]("variants", variantSearchCols,
		[]string{"Name", "Description", "Status", "Created At"},
		func(x models.Variant) []string {
			return []string{x.Name, x.Description, string(x.Status), x.CreatedAt.Format("2006-01-02")}
		})
}
