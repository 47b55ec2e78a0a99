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

func newItemApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	api := app.Group("/api", auth.JWTMiddleware(cfg))
	api.Post("/items", inventory.CreateItemHandler())
	api.Get("/items", inventory.ListItemsHandler())
	api.Put("/items/:id", inventory.UpdateItemHandler())
	return app
}

func seedCategoryForItems(t *testing.T, db *gorm.DB, userID uint) models.Category {
	t.Helper()
	cat := models.Category{Base: models.Base{UserID: userID, Status: models.StatusActive}, Name: "Hardware"}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func TestCreateItem(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newItemApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	cat := seedCategoryForItems(t, db, user.ID)

	res := testutil.Request(t, app, "POST", "/api/items", token,
		fiber.Map{"name": "Widget", "sku": "WID-1", "quantity": 4, "unit_price": 9.99, "category_id": cat.ID})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var item models.InventoryItem
	testutil.DecodeJSON(t, res, &item)
	assert.Equal(t, "Widget", item.Name)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, cat.ID, item.CategoryID)
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newItemApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, db, "owner@example.com"))

	res := testutil.Request(t, app, "POST", "/api/items", token,
		fiber.Map{"name": "Widget", "category_id": 424242})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestCreateItemRejectsForeignCategory(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newItemApp(cfg)
	other := testutil.CreateUser(t, db, "other@example.com")
	token := testutil.Token(t, cfg, testutil.CreateUser(t, db, "owner@example.com"))
	foreignCat := seedCategoryForItems(t, db, other.ID)

	res := testutil.Request(t, app, "POST", "/api/items", token,
		fiber.Map{"name": "Widget", "category_id": foreignCat.ID})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestCreateItemDuplicateSKU(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newItemApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	cat := seedCategoryForItems(t, db, user.ID)

	res := testutil.Request(t, app, "POST", "/api/items", token,
		fiber.Map{"name": "Widget", "sku": "WID-1", "category_id": cat.ID})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = testutil.Request(t, app, "POST", "/api/items", token,
		fiber.Map{"name": "Other Widget", "sku": "wid-1", "category_id": cat.ID})
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)
}

func TestUpdateItemCannotTouchQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newItemApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)
	cat := seedCategoryForItems(t, db, user.ID)

	item := models.InventoryItem{
		Base:       models.Base{UserID: user.ID, Status: models.StatusActive},
		Name:       "Widget",
		Quantity:   7,
		CategoryID: cat.ID,
	}
	require.NoError(t, db.Create(&item).Error)

	// quantity in the payload is ignored; stock only moves through transactions
	res := testutil.Request(t, app, "PUT", fmt.Sprintf("/api/items/%d", item.ID), token,
		fiber.Map{"name": "Renamed Widget", "quantity": 999})
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, "Renamed Widget", reloaded.Name)
	assert.Equal(t, 7, reloaded.Quantity)
}
