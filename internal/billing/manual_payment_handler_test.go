package billing_test

import (
	"testing"
	"time"

	"inventorylite-backend/internal/auth"
	"inventorylite-backend/internal/billing"
	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/models"
	"inventorylite-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentsApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	api := app.Group("/api", auth.JWTMiddleware(cfg))
	api.Post("/manual-payments", billing.CreateManualPaymentHandler())
	api.Get("/manual-payments", billing.ListManualPaymentsHandler())
	return app
}

func TestCreateManualPayment(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newPaymentsApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, db, "owner@example.com"))

	res := testutil.Request(t, app, "POST", "/api/manual-payments", token,
		fiber.Map{"amount": 120.50, "method": "bank transfer", "reference": "INV-9"})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var payment models.ManualPayment
	testutil.DecodeJSON(t, res, &payment)
	assert.InDelta(t, 120.50, payment.Amount, 0.001)
	require.NotNil(t, payment.PaidAt)
	assert.WithinDuration(t, time.Now(), *payment.PaidAt, time.Minute)
}

func TestCreateManualPaymentRejectsNonPositiveAmount(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newPaymentsApp(cfg)
	token := testutil.Token(t, cfg, testutil.CreateUser(t, db, "owner@example.com"))

	res := testutil.Request(t, app, "POST", "/api/manual-payments", token, fiber.Map{"amount": 0})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = testutil.Request(t, app, "POST", "/api/manual-payments", token, fiber.Map{"amount": -5})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.ManualPayment{}).Count(&count).Error)
	assert.Zero(t, count)
}
