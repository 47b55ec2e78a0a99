package partners_test

import (
	"testing"

	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/listing"
	"inventorylite-backend/internal/models"
	"inventorylite-backend/internal/partners"
	"inventorylite-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplierApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	api := app.Group("/api", auth.JWTMiddleware(cfg))
	api.Post("/suppliers", partners.CreateSupplierHandler())
	api.Get("/suppliers", partners.ListSuppliersHandler())
	return app
}

func TestCreateSupplier(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newSupplierApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, db, "owner@example.com"))

	res := testutil.Request(t, app, "POST", "/api/suppliers", token, fiber.Map{
		"name":    "Acme Supply",
		"email":   "sales@acme.example",
		"phone":   "+1 555 0100",
		"address": "1 Factory Rd",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var supplier models.Supplier
	testutil.DecodeJSON(t, res, &supplier)
	assert.Equal(t, "Acme Supply", supplier.Name)
	assert.Equal(t, "sales@acme.example", supplier.Email)
	assert.Equal(t, models.StatusActive, supplier.Status)
}

func TestCreateSupplierRequiresName(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newSupplierApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, db, "owner@example.com"))

	res := testutil.Request(t, app, "POST", "/api/suppliers", token, fiber.Map{"email": "x@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestExportVendors(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()

	app := testutil.NewApp()
	app.Get("/api/vendors/export", auth.JWTMiddleware(cfg), partners.ExportVendorsHandler())

	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)

	vendor := models.Vendor{Base: models.Base{UserID: user.ID, Status: models.StatusActive}, Name: "Acme", Email: "po@acme.example"}
	require.NoError(t, db.Create(&vendor).Error)

	res := testutil.Request(t, app, "GET", "/api/vendors/export?format=xlsx", token, nil)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get(fiber.HeaderContentDisposition), "attachment")
}

func TestListSuppliersSearchesContactFields(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newSupplierApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	token := testutil.Token(t, cfg, user)

	for _, s := range []models.Supplier{
		{Base: models.Base{UserID: user.ID, Status: models.StatusActive}, Name: "Acme Supply", Email: "sales@acme.example"},
		{Base: models.Base{UserID: user.ID, Status: models.StatusActive}, Name: "Globex", Email: "orders@globex.example"},
	} {
		supplier := s
		require.NoError(t, db.Create(&supplier).Error)
	}

	var page listing.Result[models.Supplier]
	testutil.DecodeJSON(t, testutil.Request(t, app, "GET", "/api/suppliers?search=globex", token, nil), &page)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Globex", page.Rows[0].Name)
}
