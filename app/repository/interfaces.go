package repository

import (
	"github.com/pledgekit/pledgekit/app/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project-related database operations
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	// GetForSubscription loads a project with its plan and the
	// organization's connected account preloaded, as required before any
	// subscription workflow step runs.
	GetForSubscription(id uint) (*models.Project, error)
	GetByPlanID(planID uint) (*models.Project, error)
	Update(project *models.Project) error
	List(offset, limit int) ([]models.Project, error)
	Count() (int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetForSubscription loads a user with the platform customer and its
	// cards preloaded.
	GetForSubscription(id uint) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// CustomerRepository defines the interface for customer/card mirror operations
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByStripeID(stripeCustomerID string) (*models.Customer, error)
	// GetConnectCustomer returns the connect-scoped customer of a user for
	// a specific connected account, with cards preloaded.
	GetConnectCustomer(userID, connectAccountID uint) (*models.Customer, error)
	CreateCard(card *models.Card) error
}

// SubscriptionRepository defines the interface for subscription mirror operations
type SubscriptionRepository interface {
	GetByPlanAndUser(planID, userID uint) (*models.Subscription, error)
	GetByStripeID(stripeSubscriptionID string) (*models.Subscription, error)
	Create(sub *models.Subscription) error
	// UpdateFromWebhook persists only the webhook-mutable columns of sub
	// onto the stored record with the given id.
	UpdateFromWebhook(id uint, sub *models.Subscription) error
	ListByUser(userID uint) ([]models.Subscription, error)
}

// WebhookEventRepository defines the interface for webhook event deduplication
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
	// MarkFailed records the failure reason without marking the event
	// processed, so a provider retry gets another attempt.
	MarkFailed(id uint, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Project      ProjectRepository
	User         UserRepository
	Customer     CustomerRepository
	Subscription SubscriptionRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Project:      NewProjectRepository(db),
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Subscription: NewSubscriptionRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}
