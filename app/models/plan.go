package models

import "time"

// Plan is the Stripe-mirrored recurring price of a project. Owned by exactly
// one project.
type Plan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"not null;uniqueIndex" json:"project_id"`
	StripePlanID  string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_plan_id"`
	AmountCents   int64     `gorm:"not null" json:"amount_cents"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
	Interval      string    `gorm:"type:varchar(16);not null;default:'month'" json:"interval"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
