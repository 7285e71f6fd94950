package models

import "time"

// DonationGoal is a stretch goal of a project. Progress is recomputed from
// entitling subscriptions after every successful pledge create or webhook
// sync.
type DonationGoal struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProjectID    uint      `gorm:"not null;index" json:"project_id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	AmountCents  int64     `gorm:"not null" json:"amount_cents"`
	PledgedCents int64     `gorm:"not null;default:0" json:"pledged_cents"`
	Reached      bool      `gorm:"default:false;index" json:"reached"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
