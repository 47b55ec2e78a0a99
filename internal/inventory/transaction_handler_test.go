package inventory_test

import (
	"fmt"
	"testing"

	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/inventory"
	"inventorylite-backend/internal/models"
	"inventorylite-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTransactionApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	api := app.Group("/api", auth.JWTMiddleware(cfg))
	api.Post("/transactions", inventory.CreateTransactionHandler())
	api.Get("/transactions", inventory.ListTransactionsHandler())
	return app
}

func seedItem(t *testing.T, db *gorm.DB, userID uint, name string, qty int) models.InventoryItem {
	t.Helper()

	cat := models.Category{Base: models.Base{UserID: userID, Status: models.StatusActive}, Name: name + " category"}
	require.NoError(t, db.Create(&cat).Error)

	item := models.InventoryItem{
		Base:       models.Base{UserID: userID, Status: models.StatusActive},
		Name:       name,
		Quantity:   qty,
		UnitPrice:  2.5,
		CategoryID: cat.ID,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCreateTransactionAdjustsStock(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newTransactionApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	item := seedItem(t, db, user.ID, "Widget", 0)

	res := testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "in", "quantity": 5, "note": "initial stock"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var movement models.Transaction
	testutil.DecodeJSON(t, res, &movement)
	assert.Equal(t, models.DirectionIn, movement.Direction)
	assert.Equal(t, 5, movement.Quantity)
	assert.Equal(t, 5, movement.CurrentItemQuantity)

	res = testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "out", "quantity": 2})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	testutil.DecodeJSON(t, res, &movement)
	assert.Equal(t, 3, movement.CurrentItemQuantity)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 3, reloaded.Quantity)
}

func TestSnapshotIsNeverRewritten(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newTransactionApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	item := seedItem(t, db, user.ID, "Widget", 0)

	res := testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "in", "quantity": 5})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)
	var first models.Transaction
	testutil.DecodeJSON(t, res, &first)

	res = testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "in", "quantity": 10})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	// the earlier movement keeps its historical snapshot
	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.Equal(t, 5, reloaded.CurrentItemQuantity)
}

func TestCreateTransactionInsufficientStock(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newTransactionApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	item := seedItem(t, db, user.ID, "Widget", 3)

	res := testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "out", "quantity": 10})
	require.Equal(t, fiber.StatusConflict, res.StatusCode)

	// nothing committed: quantity untouched, no movement row
	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, 3, reloaded.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTransactionValidation(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newTransactionApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	item := seedItem(t, db, user.ID, "Widget", 3)

	res := testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "sideways", "quantity": 1})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": item.ID, "direction": "in", "quantity": 0})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = testutil.Request(t, app, "POST", "/api/transactions", token,
		fiber.Map{"item_id": 99999, "direction": "in", "quantity": 1})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestListTransactionsFilters(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newTransactionApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	widget := seedItem(t, db, user.ID, "Widget", 0)
	gadget := seedItem(t, db, user.ID, "Gadget", 0)

	for _, seed := range []struct {
		item models.InventoryItem
		dir  string
		qty  int
	}{
		{widget, "in", 5},
		{widget, "out", 2},
		{gadget, "in", 7},
	} {
		res := testutil.Request(t, app, "POST", "/api/transactions", token,
			fiber.Map{"item_id": seed.item.ID, "direction": seed.dir, "quantity": seed.qty})
		require.Equal(t, fiber.StatusCreated, res.StatusCode)
	}

	var page struct {
		Rows       []models.Transaction `json:"rows"`
		TotalCount int64                `json:"total_count"`
	}

	testutil.DecodeJSON(t, testutil.Request(t, app, "GET", "/api/transactions", token, nil), &page)
	assert.EqualValues(t, 3, page.TotalCount)

	testutil.DecodeJSON(t, testutil.Request(t, app, "GET",
		fmt.Sprintf("/api/transactions?item_id=%d", widget.ID), token, nil), &page)
	assert.EqualValues(t, 2, page.TotalCount)

	testutil.DecodeJSON(t, testutil.Request(t, app, "GET", "/api/transactions?direction=out", token, nil), &page)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, models.DirectionOut, page.Rows[0].Direction)
}
