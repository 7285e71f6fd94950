package payments

import (
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82"

	"github.com/pledgekit/pledgekit/app/models"
)

func TestSubscriptionAttrs_MapsProcessorObject(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	remote := &stripe.Subscription{
		ID:                "sub_123",
		Status:            stripe.SubscriptionStatusTrialing,
		CancelAtPeriodEnd: true,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					Quantity:           3,
					CurrentPeriodStart: start.Unix(),
					CurrentPeriodEnd:   end.Unix(),
				},
			},
		},
	}

	got := SubscriptionAttrs(remote, Extra{PlanID: 11, UserID: 21})

	if got.StripeSubscriptionID != "sub_123" {
		t.Fatalf("expected processor id sub_123, got %q", got.StripeSubscriptionID)
	}
	if got.PlanID != 11 || got.UserID != 21 {
		t.Fatalf("expected extra attributes threaded through, got plan=%d user=%d", got.PlanID, got.UserID)
	}
	if got.Status != models.SubscriptionStatusTrialing {
		t.Fatalf("expected trialing status, got %q", got.Status)
	}
	if got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", got.Quantity)
	}
	if got.CurrentPeriodStart == nil || !got.CurrentPeriodStart.Equal(start) {
		t.Fatalf("expected period start %v, got %v", start, got.CurrentPeriodStart)
	}
	if got.CurrentPeriodEnd == nil || !got.CurrentPeriodEnd.Equal(end) {
		t.Fatalf("expected period end %v, got %v", end, got.CurrentPeriodEnd)
	}
	if !got.CancelAtPeriodEnd {
		t.Fatalf("expected cancel_at_period_end to carry over")
	}
	if got.CanceledAt != nil {
		t.Fatalf("expected nil canceled_at for a live subscription, got %v", got.CanceledAt)
	}
}

func TestSubscriptionAttrs_CreationChangesetRoundTrip(t *testing.T) {
	remote := &stripe.Subscription{
		ID:     "sub_rt",
		Status: stripe.SubscriptionStatusActive,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{{Quantity: 2}},
		},
	}

	got := SubscriptionAttrs(remote, Extra{PlanID: 11, UserID: 21})
	if err := got.Validate(); err != nil {
		t.Fatalf("expected mapped record to pass the creation changeset, got %v", err)
	}
	if got.StripeSubscriptionID != remote.ID || got.Status != string(remote.Status) {
		t.Fatalf("expected processor id and status preserved through mapping, got %+v", got)
	}
}

func TestSubscriptionAttrs_TotalOverSparseObjects(t *testing.T) {
	got := SubscriptionAttrs(&stripe.Subscription{ID: "sub_sparse", Status: stripe.SubscriptionStatusCanceled, CanceledAt: 1735689600}, Extra{})

	if got.Quantity != 1 {
		t.Fatalf("expected quantity to default to 1 without items, got %d", got.Quantity)
	}
	if got.CurrentPeriodStart != nil || got.CurrentPeriodEnd != nil {
		t.Fatalf("expected nil periods without items")
	}
	if got.CanceledAt == nil || got.CanceledAt.Unix() != 1735689600 {
		t.Fatalf("expected canceled_at mapped from unix seconds, got %v", got.CanceledAt)
	}
}
