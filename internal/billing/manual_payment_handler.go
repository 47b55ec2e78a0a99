package billing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"inventorylite-backend/internal/audit"
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/listing"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var manualPaymentSearchCols = []string{"method", "reference"}

type CreateManualPaymentRequest struct {
	Amount    float64    `json:"amount"`
	Method    string     `json:"method"`
	Reference string     `json:"reference"`
	Notes     string     `json:"notes"`
	PaidAt    *time.Time `json:"paid_at"`
}

type UpdateManualPaymentRequest struct {
	Amount    *float64   `json:"amount"`
	Method    *string    `json:"method"`
	Reference *string    `json:"reference"`
	Notes     *string    `json:"notes"`
	PaidAt    *time.Time `json:"paid_at"`
}

// POST /api/manual-payments
func CreateManualPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		var body CreateManualPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
		}

		payment := models.ManualPayment{
			Base:      models.Base{UserID: userID, Status: models.StatusActive},
			Amount:    body.Amount,
			Method:    strings.TrimSpace(body.Method),
			Reference: strings.TrimSpace(body.Reference),
			Notes:     strings.TrimSpace(body.Notes),
			PaidAt:    body.PaidAt,
		}
		if payment.PaidAt == nil {
			now := time.Now()
			payment.PaidAt = &now
		}

		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record payment")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "manual_payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Manual payment recorded: %.2f via %s", payment.Amount, payment.Method),
			After:       payment,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(payment)
	}
}

// PUT /api/manual-payments/:id
func UpdateManualPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		payment, err := listing.FindOwned[models.ManualPayment](database.DB, userID, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		beforeJSON, _ := json.Marshal(payment)

		var body UpdateManualPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
			}
			payment.Amount = *body.Amount
		}
		if body.Method != nil {
			payment.Method = strings.TrimSpace(*body.Method)
		}
		if body.Reference != nil {
			payment.Reference = strings.TrimSpace(*body.Reference)
		}
		if body.Notes != nil {
			payment.Notes = strings.TrimSpace(*body.Notes)
		}
		if body.PaidAt != nil {
			payment.PaidAt = body.PaidAt
		}

		if err := database.DB.Save(payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update payment")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "manual_payment",
			EntityID:    payment.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Manual payment updated: %.2f via %s", payment.Amount, payment.Method),
			Before:      json.RawMessage(beforeJSON),
			After:       payment,
		}); logErr != nil {
			logger.L.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(payment)
	}
}

func ListManualPaymentsHandler() fiber.Handler {
	return listing.ListHandler[models.ManualPayment](manualPaymentSearchCols)
}

func GetManualPaymentHandler() fiber.Handler {
	return listing.GetHandler[models.ManualPayment]()
}

func ArchiveManualPaymentHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.ManualPayment]("manual_payment", models.StatusArchived)
}

func RestoreManualPaymentHandler() fiber.Handler {
	return listing.StatusPatchHandler[models.ManualPayment]("manual_payment", models.StatusActive)
}

// GET /api/manual-payments/export?format=xlsx|pdf
func ExportManualPaymentsHandler() fiber.Handler {
	return listing.ExportHandler[models.ManualPayment]("manual-payments", manualPaymentSearchCols,
		[]string{"Amount", "Method", "Reference", "Paid At", "Status"},
		func(x models.ManualPayment) []string {
			paidAt := ""
			if x.PaidAt != nil {
				paidAt = x.PaidAt.Format("2006-01-02")
			}
			return []string{
				fmt.Sprintf("%.2f", x.Amount),
				x.Method,
				x.Reference,
				paidAt,
				string(x.Status),
			}
		})
}
