package models

import "time"

// Organization owns projects and the connected account their pledges are
// charged against.
type Organization struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(150);not null" json:"name"`
	Email          string          `gorm:"type:varchar(200);default:''" json:"email"`
	ConnectAccount *ConnectAccount `gorm:"foreignKey:OrganizationID" json:"connect_account,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
