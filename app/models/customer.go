package models

import "time"

// Customer kinds. A platform customer lives directly under the Stripe
// platform account; a connect customer is the per-connected-account copy
// required to place charges against that account.
const (
	CustomerKindPlatform = "platform"
	CustomerKindConnect  = "connect"
)

// Customer is the local mirror of a Stripe customer object.
type Customer struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"not null;index:idx_customers_user_kind,priority:1" json:"user_id"`
	Kind             string          `gorm:"type:varchar(20);not null;default:'platform';index:idx_customers_user_kind,priority:2" json:"kind"`
	ConnectAccountID *uint           `gorm:"index" json:"connect_account_id,omitempty"`
	StripeCustomerID string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_customer_id"`
	Email            string          `gorm:"type:varchar(200);default:''" json:"email"`
	Cards            []Card          `gorm:"foreignKey:CustomerID" json:"cards,omitempty"`
	ConnectAccount   *ConnectAccount `gorm:"foreignKey:ConnectAccountID" json:"connect_account,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultCard returns the customer's default card, falling back to the first
// stored card when none is flagged.
func (c *Customer) DefaultCard() *Card {
	for i := range c.Cards {
		if c.Cards[i].IsDefault {
			return &c.Cards[i]
		}
	}
	if len(c.Cards) > 0 {
		return &c.Cards[0]
	}
	return nil
}
