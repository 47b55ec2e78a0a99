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

var categorySearchCols = []string{"name", "description"}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Description = strings.TrimSpace(body.Description)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		taken, err := listing.ColumnTaken[models.Category](userID, "name", body.Name, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check category name")
		}
		if taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A category with this name already exists",
				"field": "name",
			})
		}

		category := models.Category{
			Base:        models.Base{UserID: userID, Status: models.StatusActive},
			Name:        body.Name,
			Description: body.Description,
		}

		if err := database.DB.Create(&category).Error; err != nil {
			if listing.IsDuplicate(err) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "A category with this name already exists",
					"field": "name",
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "category",
			EntityID:    category.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Category created: %s", category.Name),
			After:       category,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(category)
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		category, err := listing.FindOwned[models.Category](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		beforeJSON, _ := json.Marshal(category)

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			taken, err := listing.ColumnTaken[models.Category](userID, "name", name, category.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check category name")
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "A category with this name already exists",
					"field": "name",
				})
			}
			category.Name = name
		}
		if body.Description != nil {
			category.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(category).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "category",
			EntityID:    category.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Category updated: %s", category.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       category,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(category)
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return listing.ListHandler[models.Category](categorySearchCols)
}

// GET /api/categories/:id
func GetCategoryHandler() fiber.Handler {
	return listing.GetHandler[models.Category]()
}

// PATCH /api/categories/:id/archive
func ArchiveCategoryHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Category]("category", models.StatusArchived)
}

// PATCH /api/categories/:id/restore
func RestoreCategoryHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Category]("category", models.StatusActive)
}

// GET /api/categories/export?format=xlsx|pdf
// Exports the page selected by the usual list params, not the whole set.
func ExportCategoriesHandler() fiber.Handler {
	return listing.ExportHandler[models.Category]("categories", categorySearchCols,
		[]string{"Name", "Description", "Status", "Created At"},
		func(x models.Category) []string {
			return []string{x.Name, x.Description, string(x.Status), x.CreatedAt.Format("2006-01-02")}
		})
}
