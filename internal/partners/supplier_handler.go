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

// Contact-card entities search across all four text columns.
var supplierSearchCols = []string{"name", "email", "phone", "address"}

type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		supplier := models.Supplier{
			Base:    models.Base{UserID: userID, Status: models.StatusActive},
			Name:    body.Name,
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:   strings.TrimSpace(body.Phone),
			Address: strings.TrimSpace(body.Address),
		}

		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create supplier")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Supplier created: %s", supplier.Name),
			After:       supplier,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		supplier, err := listing.FindOwned[models.Supplier](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		beforeJSON, _ := json.Marshal(supplier)

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			supplier.Name = name
		}
		if body.Email != nil {
			supplier.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			supplier.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			supplier.Address = strings.TrimSpace(*body.Address)
		}

		if err := database.DB.Save(supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update supplier")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "supplier",
			EntityID:    supplier.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Supplier updated: %s", supplier.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       supplier,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(supplier)
	}
}

func ListSuppliersHandler() fiber.Handler {
	return listing.ListHandler[models.Supplier](supplierSearchCols)
}

func GetSupplierHandler() fiber.Handler {
	return listing.GetHandler[models.Supplier]()
}

func ArchiveSupplierHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Supplier]("supplier", models.StatusArchived)
}

func RestoreSupplierHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Supplier]("supplier", models.StatusActive)
}

// GET /api/suppliers/export?format=xlsx|pdf
func ExportSuppliersHandler() fiber.Handler {
	return listing.ExportHandler[models.Supplier]("suppliers", supplierSearchCols,
		[]string{"Name", "Email", "Phone", "Address", "Status"},
		func(x models.Supplier) []string {
			return []string{x.Name, x.Email, x.Phone, x.Address, string(x.Status)}
		})
}
