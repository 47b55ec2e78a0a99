package export

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Table is the shape both adapters consume: a title line, header labels and
// the body rows (already formatted as strings).
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Filename stamps the report name the way the download buttons do.
func Filename(report, ext string) string {
	return fmt.Sprintf("%s-%s.%s", report, time.Now().Format("20060102-150405"), ext)
}

// Send renders the table in the requested format and streams it as a
// download.
func Send(c *fiber.Ctx, report, format string, t Table) error {
	switch format {
	case "xlsx":
		data, err := BuildXLSX(t)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build spreadsheet")
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", Filename(report, "xlsx")))
		return c.Send(data)
	case "pdf":
		data, err := BuildPDF(t)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build PDF")
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", Filename(report, "pdf")))
		return c.Send(data)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "format must be xlsx or pdf")
	}
}
