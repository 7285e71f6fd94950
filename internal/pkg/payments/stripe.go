package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// CreateSubscriptionParams carries everything the processor needs to open a
// subscription on a connected account.
type CreateSubscriptionParams struct {
	CustomerID            string
	PlanID                string
	Quantity              int64
	CardID                string
	ApplicationFeePercent float64
}

// CreateCustomerParams carries the fields for a connect-scoped customer.
type CreateCustomerParams struct {
	Email       string
	Description string
}

// ProcessorClient exposes the subset of Stripe operations the subscription
// workflows consume. Every call is scoped to a connected account via its
// Stripe account id; passing an empty account id is a caller bug, not a
// recoverable condition. Implementations do not retry; transient processor
// failures surface to the caller as-is.
type ProcessorClient interface {
	GetSubscription(ctx context.Context, subscriptionID, stripeAccount string) (*stripe.Subscription, error)
	CreateSubscription(ctx context.Context, p CreateSubscriptionParams, stripeAccount string) (*stripe.Subscription, error)
	CreateCustomer(ctx context.Context, p CreateCustomerParams, stripeAccount string) (*stripe.Customer, error)
	// CreateSharedToken tokenizes the default source of a platform customer
	// for one-time use on the connected account.
	CreateSharedToken(ctx context.Context, platformCustomerID, stripeAccount string) (*stripe.Token, error)
	CreateCard(ctx context.Context, customerID, tokenID, stripeAccount string) (*stripe.Card, error)
}

type stripeClient struct {
	api *client.API
}

// NewStripeClient creates a ProcessorClient backed by the Stripe API.
func NewStripeClient(secretKey string) ProcessorClient {
	api := client.New(secretKey, nil)
	return &stripeClient{api: api}
}

func (c *stripeClient) GetSubscription(ctx context.Context, subscriptionID, stripeAccount string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	params.SetStripeAccount(stripeAccount)
	return c.api.Subscriptions.Get(subscriptionID, params)
}

func (c *stripeClient) CreateSubscription(ctx context.Context, p CreateSubscriptionParams, stripeAccount string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer:              stripe.String(p.CustomerID),
		DefaultSource:         stripe.String(p.CardID),
		ApplicationFeePercent: stripe.Float64(p.ApplicationFeePercent),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price:    stripe.String(p.PlanID),
				Quantity: stripe.Int64(p.Quantity),
			},
		},
	}
	params.Context = ctx
	params.SetStripeAccount(stripeAccount)
	params.IdempotencyKey = stripe.String(uuid.NewString())
	return c.api.Subscriptions.New(params)
}

func (c *stripeClient) CreateCustomer(ctx context.Context, p CreateCustomerParams, stripeAccount string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	if p.Email != "" {
		params.Email = stripe.String(p.Email)
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	params.Context = ctx
	params.SetStripeAccount(stripeAccount)
	params.IdempotencyKey = stripe.String(uuid.NewString())
	return c.api.Customers.New(params)
}

func (c *stripeClient) CreateSharedToken(ctx context.Context, platformCustomerID, stripeAccount string) (*stripe.Token, error) {
	params := &stripe.TokenParams{
		Customer: stripe.String(platformCustomerID),
	}
	params.Context = ctx
	params.SetStripeAccount(stripeAccount)
	return c.api.Tokens.New(params)
}

func (c *stripeClient) CreateCard(ctx context.Context, customerID, tokenID, stripeAccount string) (*stripe.Card, error) {
	params := &stripe.CardParams{
		Customer: stripe.String(customerID),
		Token:    stripe.String(tokenID),
	}
	params.Context = ctx
	params.SetStripeAccount(stripeAccount)
	return c.api.Cards.New(params)
}
