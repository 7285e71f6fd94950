package controllers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/pledgekit/pledgekit/app/models"
	"github.com/pledgekit/pledgekit/internal/pkg/env"
	"github.com/pledgekit/pledgekit/internal/pkg/payments"
)

// HandleStripeWebhook handles POST /webhooks/stripe. Events are verified,
// recorded once in the dedup table, then dispatched to the synchronization
// workflow. Subscription state is never created here, only reconciled.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	event, err := webhook.ConstructEvent(payload, signature, secret)
	if err != nil {
		log.Warnf("stripe webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	created, stored, err := webhookEvents.CreateIfNotExists(&models.WebhookEvent{
		Provider:        "stripe",
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	})
	if err != nil {
		log.Errorf("could not record stripe webhook event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not record event",
		})
	}
	if !created && stored.ProcessedAt != nil {
		// Stripe redelivered an event we already handled.
		return c.SendStatus(fiber.StatusOK)
	}

	procErr := dispatchStripeEvent(c, event)

	if procErr != nil {
		if errors.Is(procErr, payments.ErrNotFound) {
			// No local mirror to reconcile; retrying will never succeed.
			log.Infof("stripe webhook event %s references unknown records: %v", event.ID, procErr)
			if err := webhookEvents.MarkProcessed(stored.ID, procErr.Error()); err != nil {
				log.Errorf("could not mark stripe webhook event %s processed: %v", event.ID, err)
			}
			return c.SendStatus(fiber.StatusOK)
		}
		// The event stays unprocessed so Stripe's retry gets another attempt.
		if err := webhookEvents.MarkFailed(stored.ID, procErr.Error()); err != nil {
			log.Errorf("could not record failure for stripe webhook event %s: %v", event.ID, err)
		}
		log.Errorf("stripe webhook event %s failed: %v", event.ID, procErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "event processing failed",
		})
	}

	if err := webhookEvents.MarkProcessed(stored.ID, ""); err != nil {
		log.Errorf("could not mark stripe webhook event %s processed: %v", event.ID, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func dispatchStripeEvent(c *fiber.Ctx, event stripe.Event) error {
	switch string(event.Type) {
	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		if sub.Customer == nil {
			return errors.New("subscription event carries no customer")
		}
		_, err := subscriptionService.UpdateFromStripe(c.UserContext(), sub.ID, sub.Customer.ID)
		return err
	default:
		// Recorded and acknowledged, nothing to synchronize.
		return nil
	}
}
