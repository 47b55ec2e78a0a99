package listing

import (
	"strings"

	"inventorylite-backend/internal/models"

	"gorm.io/gorm"
)

// Result is the list envelope every entity page consumes.
type Result[T any] struct {
	Rows       []T   `json:"rows"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// ApplyFilters narrows q by status (unless the "all" sentinel) and by a
// case-insensitive substring match OR-ed across the entity's search columns.
func ApplyFilters(q *gorm.DB, searchCols []string, p Params) *gorm.DB {
	if p.Status != models.StatusAll {
		q = q.Where("status = ?", p.Status)
	}

	if p.Search != "" && len(searchCols) > 0 {
		term := "%" + strings.ToLower(p.Search) + "%"
		conds := make([]string, 0, len(searchCols))
		args := make([]interface{}, 0, len(searchCols))
		for _, col := range searchCols {
			conds = append(conds, "LOWER("+col+") LIKE ?")
			args = append(args, term)
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	return q
}

// Run executes one list fetch: a count filtered by search/status (but not by
// page) followed by the page window, newest first. Requesting a page past the
// end returns an empty row set, not an error.
func Run[T any](q *gorm.DB, searchCols []string, p Params) (Result[T], error) {
	res := Result[T]{
		Rows:     []T{},
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	q = ApplyFilters(q, searchCols, p)

	if err := q.Count(&res.TotalCount).Error; err != nil {
		return res, err
	}

	if err := q.
		Order("created_at DESC, id DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&res.Rows).Error; err != nil {
		return res, err
	}

	res.TotalPages = int((res.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
	return res, nil
}
