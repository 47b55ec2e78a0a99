package partners

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

var vendorSearchCols = []string{"name", "email", "phone", "address"}

type CreateVendorRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateVendorRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// POST /api/vendors
func CreateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		vendor := models.Vendor{
			Base:    models.Base{UserID: userID, Status: models.StatusActive},
			Name:    body.Name,
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:   strings.TrimSpace(body.Phone),
			Address: strings.TrimSpace(body.Address),
		}

		if err := database.DB.Create(&vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create vendor")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "vendor",
			EntityID:    vendor.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Vendor created: %s", vendor.Name),
			After:       vendor,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(vendor)
	}
}

// PUT /api/vendors/:id
func UpdateVendorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		vendor, err := listing.FindOwned[models.Vendor](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vendor not found")
		}
		beforeJSON, _ := json.Marshal(vendor)

		var body UpdateVendorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			vendor.Name = name
		}
		if body.Email != nil {
			vendor.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			vendor.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			vendor.Address = strings.TrimSpace(*body.Address)
		}

		if err := database.DB.Save(vendor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update vendor")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "vendor",
			EntityID:    vendor.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Vendor updated: %s", vendor.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       vendor,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(vendor)
	}
}

func ListVendorsHandler() fiber.Handler {
	return listing.ListHandler[models.Vendor](vendorSearchCols)
}

func GetVendorHandler() fiber.Handler {
	return listing.GetHandler[models.Vendor]()
}

func ArchiveVendorHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Vendor]("vendor", models.StatusArchived)
}

func RestoreVendorHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Vendor]("vendor", models.StatusActive)
}

func ExportVendorsHandler() fiber.Handler {
	return listing.ExportHandler[models.Vendor]("vendors", vendorSearchCols,
		[]string{"Name", "Email", "Phone", "Address", "Status"},
		func(x models.Vendor) []string {
			return []string{x.Name, x.Email, x.Phone, x.Address, string(x.Status)}
		})
}
