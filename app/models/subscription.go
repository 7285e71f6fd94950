package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Stripe subscription statuses mirrored locally.
const (
	SubscriptionStatusActive            = "active"
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusUnpaid            = "unpaid"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusPaused            = "paused"
)

// Subscription mirrors a Stripe subscription object. The unique index over
// (plan_id, user_id) is the last line of defense for the at-most-one
// subscription per plan and user invariant; the Stripe subscription id is
// the lookup key for webhook synchronization.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	PlanID               uint       `gorm:"not null;index:ux_subscriptions_plan_user,unique,priority:1" json:"plan_id" validate:"required"`
	UserID               uint       `gorm:"not null;index:ux_subscriptions_plan_user,unique,priority:2" json:"user_id" validate:"required"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_subscription_id" validate:"required"`
	Status               string     `gorm:"type:varchar(32);not null;default:'active';index" json:"status" validate:"required,oneof=active trialing past_due canceled unpaid incomplete incomplete_expired paused"`
	Quantity             int64      `gorm:"not null;default:1" json:"quantity" validate:"required,min=1"`
	CurrentPeriodStart   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CanceledAt           *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	Plan                 *Plan      `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	User                 *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// IsEntitling reports whether the subscription status still entitles the
// user to backer benefits.
func (s *Subscription) IsEntitling() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPastDue:
		return true
	default:
		return false
	}
}

// WebhookMutableColumns are the only columns the webhook synchronization
// path may touch. Identity columns (plan, user, stripe id) never change
// after creation.
func WebhookMutableColumns() []string {
	return []string{
		"status",
		"quantity",
		"current_period_start",
		"current_period_end",
		"cancel_at_period_end",
		"canceled_at",
	}
}
