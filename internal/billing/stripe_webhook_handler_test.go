package billing_test

import (
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"inventorylite-backend/internal/billing"
	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/models"
	"inventorylite-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func newWebhookApp(cfg *config.Config) *fiber.App {
	app := testutil.NewApp()
	app.Post("/api/stripe/webhook", billing.StripeWebhookHandler(cfg))
	return app
}

func sendEvent(t *testing.T, app *fiber.App, secret, payload string) int {
	t.Helper()

	now := time.Now()
	sig := webhook.ComputeSignature(now, []byte(payload), secret)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))

	req := httptest.NewRequest("POST", "/api/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", header)

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res.StatusCode
}

func checkoutEventPayload(eventID string, userID uint) string {
	return fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"client_reference_id": %q,
				"customer": "cus_test_1",
				"subscription": "sub_test_1"
			}
		}
	}`, eventID, strconv.FormatUint(uint64(userID), 10))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")

	payload := checkoutEventPayload("evt_bad_sig", user.ID)
	req := httptest.NewRequest("POST", "/api/stripe/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	// the unverified event must have no effect
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.PlanFree, reloaded.Plan)
}

func TestWebhookUnavailableWithoutSecret(t *testing.T) {
	testutil.NewDB(t)
	cfg := testutil.NewConfig()
	cfg.StripeWebhookSecret = ""
	app := newWebhookApp(cfg)

	status := sendEvent(t, app, "whsec_whatever", checkoutEventPayload("evt_no_secret", 1))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestWebhookCheckoutCompletedUpgradesUser(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")

	status := sendEvent(t, app, cfg.StripeWebhookSecret, checkoutEventPayload("evt_upgrade", user.ID))
	require.Equal(t, fiber.StatusOK, status)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.PlanPro, reloaded.Plan)
	assert.Equal(t, "cus_test_1", reloaded.StripeCustomerID)
	assert.Equal(t, "sub_test_1", reloaded.StripeSubscriptionID)
}

func TestWebhookIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")

	payload := checkoutEventPayload("evt_replay", user.ID)
	require.Equal(t, fiber.StatusOK, sendEvent(t, app, cfg.StripeWebhookSecret, payload))
	require.Equal(t, fiber.StatusOK, sendEvent(t, app, cfg.StripeWebhookSecret, payload))

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Where("event_id = ?", "evt_replay").Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestWebhookUnknownUserStillAccepted(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)

	status := sendEvent(t, app, cfg.StripeWebhookSecret, checkoutEventPayload("evt_ghost", 424242))
	assert.Equal(t, fiber.StatusOK, status)

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestWebhookAcceptsForeignAPIVersion(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")

	// a validly signed event from an older account API version must not
	// be rejected over the version field
	payload := fmt.Sprintf(`{
		"id": "evt_old_api",
		"api_version": "2022-11-15",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_2",
				"client_reference_id": %q,
				"customer": "cus_test_2",
				"subscription": "sub_test_2"
			}
		}
	}`, strconv.FormatUint(uint64(user.ID), 10))

	status := sendEvent(t, app, cfg.StripeWebhookSecret, payload)
	require.Equal(t, fiber.StatusOK, status)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.PlanPro, reloaded.Plan)
}

func TestWebhookSubscriptionDeletedDowngradesUser(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)
	user := testutil.CreateUser(t, db, "owner@example.com")
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"plan":                   models.PlanPro,
		"stripe_subscription_id": "sub_test_9",
	}).Error)

	payload := `{
		"id": "evt_cancel",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_test_9"}}
	}`
	status := sendEvent(t, app, cfg.StripeWebhookSecret, payload)
	require.Equal(t, fiber.StatusOK, status)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.PlanFree, reloaded.Plan)
	assert.Empty(t, reloaded.StripeSubscriptionID)
}

func TestWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	app := newWebhookApp(cfg)

	payload := `{"id": "evt_other", "type": "invoice.paid", "data": {"object": {}}}`
	status := sendEvent(t, app, cfg.StripeWebhookSecret, payload)
	assert.Equal(t, fiber.StatusOK, status)

	// still recorded so a retry short-circuits
	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Where("event_id = ?", "evt_other").Count(&events).Error)
	assert.EqualValues(t, 1, events)
}
