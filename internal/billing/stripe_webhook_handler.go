package billing

import (
	"encoding/json"
	"errors"

	"inventorylite-backend/internal/config"
	"inventorylite-backend/internal/database"
	"inventorylite-backend/internal/logger"
	"inventorylite-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// POST /api/stripe/webhook (public, guarded by the event signature)
// Unverified or malformed payloads are rejected and never processed. Events
// for unknown users still return 200 so Stripe stops retrying them, and
// every processed event id is recorded to keep retries idempotent.
func StripeWebhookHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.StripeWebhookSecret == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Webhook secret is not configured")
		}

		// Tolerate events from any Stripe API version; pinning to the
		// library's version would make Stripe retry every event forever
		// after an account-side API upgrade. Signature checking is
		// unaffected.
		event, err := webhook.ConstructEventWithOptions(c.Body(), c.Get("Stripe-Signature"), cfg.StripeWebhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			logger.L.Warn("stripe webhook rejected", zap.Error(err))
			return fiber.NewError(fiber.StatusBadRequest, "Invalid webhook signature or payload")
		}

		var seen int64
		if err := database.DB.Model(&models.WebhookEvent{}).
			Where("event_id = ?", event.ID).
			Count(&seen).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check event history")
		}
		if seen > 0 {
			return c.JSON(fiber.Map{"received": true, "duplicate": true})
		}

		switch event.Type {
		case "checkout.session.completed":
			var session stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Malformed checkout session payload")
			}
			if err := handleCheckoutCompleted(&session); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not apply checkout event")
			}

		case "customer.subscription.deleted":
			var sub stripe.Subscription
			if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Malformed subscription payload")
			}
			if err := handleSubscriptionDeleted(&sub); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not apply subscription event")
			}

		default:
			logger.L.Debug("stripe event ignored", zap.String("type", string(event.Type)))
		}

		if err := database.DB.Create(&models.WebhookEvent{
			EventID: event.ID,
			Type:    string(event.Type),
		}).Error; err != nil {
			logger.L.Warn("could not record webhook event", zap.Error(err))
		}

		return c.JSON(fiber.Map{"received": true})
	}
}

func handleCheckoutCompleted(session *stripe.CheckoutSession) error {
	if session.ClientReferenceID == "" {
		logger.L.Warn("checkout session without client reference id", zap.String("session", session.ID))
		return nil
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", session.ClientReferenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.L.Warn("checkout session for unknown user",
				zap.String("client_reference_id", session.ClientReferenceID))
			return nil
		}
		return err
	}

	updates := map[string]interface{}{"plan": models.PlanPro}
	if session.Customer != nil {
		updates["stripe_customer_id"] = session.Customer.ID
	}
	if session.Subscription != nil {
		updates["stripe_subscription_id"] = session.Subscription.ID
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	logger.L.Info("subscription activated", zap.Uint("user_id", user.ID))
	return nil
}

func handleSubscriptionDeleted(sub *stripe.Subscription) error {
	var user models.User
	if err := database.DB.First(&user, "stripe_subscription_id = ?", sub.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.L.Warn("subscription deletion for unknown user", zap.String("subscription", sub.ID))
			return nil
		}
		return err
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"plan":                   models.PlanFree,
		"stripe_subscription_id": "",
	}).Error; err != nil {
		return err
	}

	logger.L.Info("subscription cancelled, user downgraded", zap.Uint("user_id", user.ID))
	return nil
}
