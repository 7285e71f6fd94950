package payments

import (
	"time"

	"github.com/pledgekit/pledgekit/app/models"
	"github.com/stripe/stripe-go/v82"
)

// Extra carries local-only attributes that cannot be derived from the
// processor object. The create path threads the owning plan and user in;
// the webhook path passes the zero value.
type Extra struct {
	PlanID uint
	UserID uint
}

// SubscriptionAttrs maps a Stripe subscription object into a local mirror
// record. It is total over any well-formed subscription object: missing
// items or timestamps map to defaults, unknown fields are ignored.
func SubscriptionAttrs(sub *stripe.Subscription, extra Extra) *models.Subscription {
	s := &models.Subscription{
		PlanID:               extra.PlanID,
		UserID:               extra.UserID,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		Quantity:             1,
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CanceledAt:           unixTime(sub.CanceledAt),
	}

	// Quantity and the billing period live on the subscription item.
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		if item.Quantity > 0 {
			s.Quantity = item.Quantity
		}
		s.CurrentPeriodStart = unixTime(item.CurrentPeriodStart)
		s.CurrentPeriodEnd = unixTime(item.CurrentPeriodEnd)
	}

	return s
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
