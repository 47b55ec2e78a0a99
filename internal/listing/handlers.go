package listing

import (
	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/export"

	"github.com/gofiber/fiber/v2"
)

// ListHandler serves the paginated, filtered, searched list for one entity.
// Every management page shares this exact fetch.
func ListHandler[T any](searchCols []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p := Parse(c)
		q := database.DB.Model(new(T)).Where("user_id = ?", userID)

		res, err := Run[T](q, searchCols, p)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list records")
		}
		return c.JSON(res)
	}
}

// ColumnTaken reports whether another row of the tenant already uses value
// in col (case-insensitive). Backs the per-tenant uniqueness checks the
// upsert forms rely on.
func ColumnTaken[T any](userID uint, col, value string, excludeID uint) (bool, error) {
	var count int64
	q := database.DB.Model(new(T)).
		Where("user_id = ?", userID).
		Where("LOWER("+col+") = LOWER(?)", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExportHandler downloads the page a list view is currently showing. It
// accepts the same filter params as ListHandler and exports exactly one page,
// not the whole filtered set.
func ExportHandler[T any](report string, searchCols []string, headers []string, rowFn func(T) []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p := Parse(c)
		q := database.DB.Model(new(T)).Where("user_id = ?", userID)

		res, err := Run[T](q, searchCols, p)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load rows for export")
		}

		rows := make([][]string, 0, len(res.Rows))
		for _, r := range res.Rows {
			rows = append(rows, rowFn(r))
		}

		return export.Send(c, report, c.Query("format", "xlsx"), export.Table{
			Title:   report,
			Headers: headers,
			Rows:    rows,
		})
	}
}
