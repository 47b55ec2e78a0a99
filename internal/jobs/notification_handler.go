package jobs

import (
	"crypto/subtle"
	"strings"

	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationEntry struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type NotificationBatchRequest struct {
	Notifications []NotificationEntry `json:"notifications"`
}

// POST /api/jobs/notifications
// Inbound trigger for the external scheduler. One email per entry; send
// failures are tallied, never abort the batch.
func DispatchNotificationsHandler(cfg *config.Config, sender Sender) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.CronSecret == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Job secret is not configured")
		}

		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" ||
			subtle.ConstantTimeCompare([]byte(parts[1]), []byte(cfg.CronSecret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid job credentials")
		}

		var body NotificationBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Notifications) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Notification batch is empty")
		}

		sent, failed := 0, 0
		for _, n := range body.Notifications {
			if strings.TrimSpace(n.Email) == "" {
				failed++
				continue
			}
			if err := sender.Send(n.Email, n.Subject, n.Body); err != nil {
				logger.L.Warn("notification dispatch failed",
					zap.String("email", n.Email), zap.Error(err))
				failed++
				continue
			}
			sent++
		}

		logger.L.Info("notification batch processed",
			zap.Int("sent", sent), zap.Int("failed", failed))

		return c.JSON(fiber.Map{"sent": sent, "failed": failed})
	}
}
