package listing

import (
	"strings"

	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params is the committed filter tuple of a list view: free-text search,
// status filter ("all" disables it) and the pagination window.
type Params struct {
	Search   string
	Status   models.Status
	Page     int
	PageSize int
}

// Parse reads the filter tuple from the query string and clamps it.
// Unknown status values fall back to "active" so a list view never mixes
// statuses by accident.
func Parse(c *fiber.Ctx) Params {
	p := Params{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   models.Status(c.Query("status", string(models.StatusActive))),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", DefaultPageSize),
	}

	switch p.Status {
	case models.StatusActive, models.StatusArchived, models.StatusAll:
	default:
		p.Status = models.StatusActive
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}
