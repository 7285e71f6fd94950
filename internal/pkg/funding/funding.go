package funding

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pledgekit/pledgekit/app/models"
	"github.com/pledgekit/pledgekit/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	CacheKeyProjectPledged = "funding:project:%d:pledged_cents" // Format with project ID
	CacheExpiration        = 30 * time.Minute
)

// Recalculator recomputes a project's pledged total and donation-goal
// progress from its entitling subscriptions. It runs as a post-commit
// effect after every successful pledge create or webhook sync.
type Recalculator struct {
	db *gorm.DB
}

// NewRecalculator creates a recalculator over the given DB handle.
func NewRecalculator(db *gorm.DB) *Recalculator {
	return &Recalculator{db: db}
}

func entitlingStatuses() []string {
	return []string{
		models.SubscriptionStatusActive,
		models.SubscriptionStatusTrialing,
		models.SubscriptionStatusPastDue,
	}
}

// RecomputeProject recalculates the pledged total of a project and updates
// every donation goal's progress. The fresh total is also written to the
// cache for the public project pages.
func (r *Recalculator) RecomputeProject(ctx context.Context, projectID uint) error {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("DonationGoals").
		First(&project, projectID).Error
	if err != nil {
		return err
	}
	if project.Plan == nil {
		// Nothing to sum against; a project without a plan has no pledges.
		return nil
	}

	var units int64
	err = r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("plan_id = ? AND status IN ?", project.Plan.ID, entitlingStatuses()).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&units).Error
	if err != nil {
		return err
	}

	pledged := units * project.Plan.AmountCents
	err = r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", project.ID).
		Update("pledged_cents", pledged).Error
	if err != nil {
		return err
	}

	for i := range project.DonationGoals {
		goal := &project.DonationGoals[i]
		err = r.db.WithContext(ctx).
			Model(&models.DonationGoal{}).
			Where("id = ?", goal.ID).
			Updates(map[string]interface{}{
				"pledged_cents": pledged,
				"reached":       pledged >= goal.AmountCents,
			}).Error
		if err != nil {
			return err
		}
	}

	key := fmt.Sprintf(CacheKeyProjectPledged, project.ID)
	if err := cache.Set(key, pledged, CacheExpiration); err != nil {
		log.Printf("Warning: could not cache pledged total for project %d: %v", project.ID, err)
	}

	return nil
}
