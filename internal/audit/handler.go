package audit

import (
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=category&page=1&page_size=10
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		pageSize := c.QueryInt("page_size", 20)
		if pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		q := database.DB.Model(&models.AuditLog{}).Where("user_id = ?", userID)
		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not count audit logs")
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC, id DESC").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(fiber.Map{
			"rows":        logs,
			"total_count": total,
			"page":        page,
			"page_size":   pageSize,
		})
	}
}
