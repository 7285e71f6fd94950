package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionValidate(t *testing.T) {
	sub := &Subscription{
		PlanID:               11,
		UserID:               21,
		StripeSubscriptionID: "sub_123",
		Status:               SubscriptionStatusActive,
		Quantity:             2,
	}
	assert.NoError(t, sub.Validate())

	sub.Status = "bogus"
	assert.Error(t, sub.Validate())

	sub.Status = SubscriptionStatusActive
	sub.Quantity = 0
	assert.Error(t, sub.Validate())
}

func TestSubscriptionIsEntitling(t *testing.T) {
	for _, status := range []string{SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue} {
		assert.True(t, (&Subscription{Status: status}).IsEntitling(), status)
	}
	for _, status := range []string{SubscriptionStatusCanceled, SubscriptionStatusUnpaid, SubscriptionStatusIncomplete, SubscriptionStatusPaused} {
		assert.False(t, (&Subscription{Status: status}).IsEntitling(), status)
	}
}

func TestWebhookMutableColumnsExcludeIdentity(t *testing.T) {
	for _, col := range WebhookMutableColumns() {
		assert.NotContains(t, []string{"plan_id", "user_id", "stripe_subscription_id", "id"}, col)
	}
}

func TestCustomerDefaultCard(t *testing.T) {
	c := &Customer{}
	assert.Nil(t, c.DefaultCard())

	c.Cards = []Card{{ID: 1}, {ID: 2, IsDefault: true}}
	assert.Equal(t, uint(2), c.DefaultCard().ID)

	c.Cards = []Card{{ID: 3}}
	assert.Equal(t, uint(3), c.DefaultCard().ID, "falls back to the first card")
}
