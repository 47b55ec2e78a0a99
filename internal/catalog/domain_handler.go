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

var domainSearchCols = []string{"name", "description"}

type CreateDomainRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateDomainRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// POST /api/domains
func CreateDomainHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateDomainRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		taken, err := listing.ColumnTaken[models.Domain](userID, "name", body.Name, 0)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check domain name")
		}
		if taken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A domain with this name already exists",
				"field": "name",
			})
		}

		domain := models.Domain{
			Base:        models.Base{UserID: userID, Status: models.StatusActive},
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
		}

		if err := database.DB.Create(&domain).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create domain")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "domain",
			EntityID:    domain.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Domain created: %s", domain.Name),
			After:       domain,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(domain)
	}
}

// PUT /api/domains/:id
func UpdateDomainHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		domain, err := listing.FindOwned[models.Domain](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Domain not found")
		}
		beforeJSON, _ := json.Marshal(domain)

		var body UpdateDomainRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			taken, err := listing.ColumnTaken[models.Domain](userID, "name", name, domain.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not check domain name")
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "A domain with this name already exists",
					"field": "name",
				})
			}
			domain.Name = name
		}
		if body.Description != nil {
			domain.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(domain).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update domain")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "domain",
			EntityID:    domain.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Domain updated: %s", domain.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       domain,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(domain)
	}
}

func ListDomainsHandler() fiber.Handler {
	return listing.ListHandler[models.Domain](domainSearchCols)
}

func GetDomainHandler() fiber.Handler {
	return listing.GetHandler[models.Domain]()
}

func ArchiveDomainHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Domain]("domain", models.StatusArchived)
}

func RestoreDomainHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Domain]("domain", models.StatusActive)
}

func ExportDomainsHandler() fiber.Handler {
	return listing.ExportHandler[models.Domain]("domains", domainSearchCols,
		[]string{"Name", "Description", "Status", "Created At"},
		func(x models.Domain) []string {
			return []string{x.Name, x.Description, string(x.Status), x.CreatedAt.Format("2006-01-02")}
		})
}
