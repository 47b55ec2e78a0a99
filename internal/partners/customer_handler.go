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

var customerSearchCols = []string{"name", "email", "phone", "address"}

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		customer := models.Customer{
			Base:    models.Base{UserID: userID, Status: models.StatusActive},
			Name:    body.Name,
			Email:   strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:   strings.TrimSpace(body.Phone),
			Address: strings.TrimSpace(body.Address),
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create customer")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Customer created: %s", customer.Name),
			After:       customer,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		customer, err := listing.FindOwned[models.Customer](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}
		beforeJSON, _ := json.Marshal(customer)

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			customer.Name = name
		}
		if body.Email != nil {
			customer.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			customer.Address = strings.TrimSpace(*body.Address)
		}

		if err := database.DB.Save(customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "customer",
			EntityID:    customer.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Customer updated: %s", customer.Name),
			Before:      json.RawMessage(beforeJSON),
			After:       customer,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(customer)
	}
}

func ListCustomersHandler() fiber.Handler {
	return listing.ListHandler[models.Customer](customerSearchCols)
}

func GetCustomerHandler() fiber.Handler {
	return listing.GetHandler[models.Customer]()
}

func ArchiveCustomerHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Customer]("customer", models.StatusArchived)
}

func RestoreCustomerHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.Customer]("customer", models.StatusActive)
}

// GET /api/customers/export?format=xlsx|pdf
func ExportCustomersHandler() fiber.Handler {
	return listing.ExportHandler[models.Customer]("customers", customerSearchCols,
		[]string{"Name", "Email", "Phone", "Address", "Status"},
		func(x models.Customer) []string {
			return []string{x.Name, x.Email, x.Phone, x.Address, string(x.Status)}
		})
}
