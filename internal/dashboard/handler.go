package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/cache"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	cacheTTL          = 60 * time.Second
	lowStockThreshold = 5
)

func statsKey(userID uint) string { return fmt.Sprintf("dashboard:stats:%d", userID) }
func trendKey(userID uint) string { return fmt.Sprintf("dashboard:trend:%d", userID) }

// Invalidate drops the tenant's cached dashboard payloads. Called after any
// stock transaction lands.
func Invalidate(ctx context.Context, userID uint) {
	if err := cache.Delete(ctx, statsKey(userID), trendKey(userID)); err != nil {
		logger.L.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

type StatsResponse struct {
	Items           int64   `json:"items"`
	Categories      int64   `json:"categories"`
	Suppliers       int64   `json:"suppliers"`
	Customers       int64   `json:"customers"`
	Vendors         int64   `json:"vendors"`
	TotalStockValue float64 `json:"total_stock_value"`
	LowStockItems   int64   `json:"low_stock_items"`
}

// GET /api/dashboard/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		if cached, err := cache.Get(ctx, statsKey(userID)); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached)
		}

		var stats StatsResponse
		counts := []struct {
			model interface{}
			dest  *int64
		}{
			{&models.InventoryItem{}, &stats.Items},
			{&models.Category{}, &stats.Categories},
			{&models.Supplier{}, &stats.Suppliers},
			{&models.Customer{}, &stats.Customers},
			{&models.Vendor{}, &stats.Vendors},
		}
		for _, cnt := range counts {
			if err := database.DB.Model(cnt.model).
				Where("user_id = ? AND status = ?", userID, models.StatusActive).
				Count(cnt.dest).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not load dashboard stats")
			}
		}

		if err := database.DB.Model(&models.InventoryItem{}).
			Where("user_id = ? AND status = ?", userID, models.StatusActive).
			Select("COALESCE(SUM(quantity * unit_price), 0)").
			Scan(&stats.TotalStockValue).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load dashboard stats")
		}

		if err := database.DB.Model(&models.InventoryItem{}).
			Where("user_id = ? AND status = ? AND quantity < ?", userID, models.StatusActive, lowStockThreshold).
			Count(&stats.LowStockItems).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load dashboard stats")
		}

		if payload, err := json.Marshal(stats); err == nil {
			if err := cache.Set(ctx, statsKey(userID), payload, cacheTTL); err != nil {
				logger.L.Warn("dashboard cache write failed", zap.Error(err))
			}
		}

		return c.JSON(stats)
	}
}

type TrendPoint struct {
	Month    string `json:"month"` // YYYY-MM
	In       int    `json:"in"`
	Out      int    `json:"out"`
	Movement int    `json:"movement"` // in - out
}

type TrendResponse struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Points []TrendPoint `json:"points"`
}

// GET /api/dashboard/monthly-trend?months=12
// Buckets transaction quantities by month and direction, zero-filling months
// with no movement so charts get a continuous series.
func MonthlyTrendHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		months := c.QueryInt("months", 12)
		if months < 1 {
			months = 12
		}
		if months > 36 {
			months = 36
		}

		ctx := c.UserContext()
		if months == 12 {
			if cached, err := cache.Get(ctx, trendKey(userID)); err == nil {
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Send(cached)
			}
		}

		now := time.Now()
		loc := now.Location()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)

		type row struct {
			CreatedAt time.Time
			Direction models.TransactionDirection
			Quantity  int
		}
		var rows []row
		if err := database.DB.Model(&models.Transaction{}).
			Select("created_at, direction, quantity").
			Where("user_id = ? AND created_at >= ?", userID, start).
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load monthly trend")
		}

		points := make([]TrendPoint, months)
		index := make(map[string]*TrendPoint, months)
		for i := 0; i < months; i++ {
			label := start.AddDate(0, i, 0).Format("2006-01")
			points[i] = TrendPoint{Month: label}
			index[label] = &points[i]
		}

		for _, r := range rows {
			p, ok := index[r.CreatedAt.In(loc).Format("2006-01")]
			if !ok {
				continue
			}
			if r.Direction == models.DirectionIn {
				p.In += r.Quantity
			} else {
				p.Out += r.Quantity
			}
		}
		for i := range points {
			points[i].Movement = points[i].In - points[i].Out
		}

		resp := TrendResponse{
			From:   start.Format("2006-01"),
			To:     now.Format("2006-01"),
			Points: points,
		}

		if months == 12 {
			if payload, err := json.Marshal(resp); err == nil {
				if err := cache.Set(ctx, trendKey(userID), payload, cacheTTL); err != nil {
					logger.L.Warn("dashboard cache write failed", zap.Error(err))
				}
			}
		}

		return c.JSON(resp)
	}
}
