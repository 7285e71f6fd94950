package models

import "time"

// ConnectAccount mirrors the Stripe connected account of an organization.
// Every processor call for a project's subscriptions is scoped to the
// organization's connected account via its Stripe account id.
type ConnectAccount struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrganizationID  uint      `gorm:"not null;uniqueIndex" json:"organization_id"`
	StripeAccountID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_account_id"`
	ChargesEnabled  bool      `gorm:"default:false" json:"charges_enabled"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsChargeable reports whether the connected account can receive charges.
func (a *ConnectAccount) IsChargeable() bool {
	return a.StripeAccountID != "" && a.ChargesEnabled
}
