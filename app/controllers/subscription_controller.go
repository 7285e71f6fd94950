package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"

	"github.com/pledgekit/pledgekit/app/repository"
	"github.com/pledgekit/pledgekit/internal/pkg/database"
	"github.com/pledgekit/pledgekit/internal/pkg/env"
	"github.com/pledgekit/pledgekit/internal/pkg/funding"
	"github.com/pledgekit/pledgekit/internal/pkg/payments"
)

var (
	subscriptionService *payments.Service
	webhookEvents       repository.WebhookEventRepository
)

// InitializeSubscriptionController wires the subscription service with its
// repositories, the Stripe client and the funding recalculator.
func InitializeSubscriptionController() {
	db := database.GetDB()
	repos := repository.NewRepositories(db)
	client := payments.NewStripeClient(env.GetEnv("STRIPE_SECRET_KEY", ""))
	provisioner := payments.NewStripeProvisioner(client, repos.Customer)

	subscriptionService = payments.NewService(repos, client, provisioner, provisioner, funding.NewRecalculator(db))
	webhookEvents = repos.WebhookEvent
}

// HandleSubscriptionCreate handles POST /api/v1/subscriptions. The workflow
// is idempotent: repeating a request for the same project and user returns
// the existing subscription without touching Stripe again.
func HandleSubscriptionCreate(c *fiber.Ctx) error {
	var params payments.FindOrCreateParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "project_id, user_id and quantity are required",
		})
	}

	sub, err := subscriptionService.FindOrCreate(c.UserContext(), params)
	if err != nil {
		return renderSubscriptionError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"subscription": sub,
	})
}

// renderSubscriptionError maps the workflow error taxonomy onto HTTP
// responses.
func renderSubscriptionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, payments.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, payments.ErrProjectNotReady):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "project_not_ready",
		})
	case errors.Is(err, payments.ErrUserNotReady):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "user_not_ready",
		})
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"details": details,
		})
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":   "payment_failed",
			"code":    stripeErr.Code,
			"message": stripeErr.Msg,
		})
	}

	log.Errorf("unexpected subscription error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected error",
	})
}
