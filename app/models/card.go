package models

import "time"

// Card is the local mirror of a Stripe card payment source. A card belongs
// to exactly one Customer (platform or connect-scoped).
type Card struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	StripeCardID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_card_id"`
	Brand        string    `gorm:"type:varchar(50);default:''" json:"brand"`
	Last4        string    `gorm:"type:varchar(4);default:''" json:"last4"`
	ExpMonth     int       `json:"exp_month"`
	ExpYear      int       `json:"exp_year"`
	IsDefault    bool      `gorm:"default:false;index" json:"is_default"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
