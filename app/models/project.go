package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStateDraft   = "draft"
	ProjectStateOnline  = "online"
	ProjectStateClosed  = "closed"
	ProjectStateDeleted = "deleted"
)

// Project is a funded entity. To be subscribable it must resolve to exactly
// one Plan and, through its organization, one ConnectAccount.
type Project struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`
	Slug           string         `gorm:"type:varchar(200);uniqueIndex" json:"slug"`
	State          string         `gorm:"type:varchar(30);not null;default:'draft';index" json:"state"`
	GoalCents      int64          `gorm:"not null;default:0" json:"goal_cents"`
	PledgedCents   int64          `gorm:"not null;default:0" json:"pledged_cents"`
	Plan           *Plan          `gorm:"foreignKey:ProjectID" json:"plan,omitempty"`
	Organization   Organization   `gorm:"foreignKey:OrganizationID" json:"organization"`
	DonationGoals  []DonationGoal `gorm:"foreignKey:ProjectID" json:"donation_goals,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// ConnectAccount resolves the connected account through the organization, or
// nil when the organization has not completed onboarding.
func (p *Project) ConnectAccount() *ConnectAccount {
	return p.Organization.ConnectAccount
}
