package payments

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/pledgekit/pledgekit/app/models"
	"github.com/pledgekit/pledgekit/app/repository"
	"gorm.io/gorm"
)

// ApplicationFeePercent is the platform cut taken from every subscription
// charge on a connected account.
const ApplicationFeePercent = 5

// Effects are the post-commit side effects of a successful subscription
// create or sync: project pledged totals and donation-goal progress. They
// run only after the local write commits and are never rolled back.
type Effects interface {
	RecomputeProject(ctx context.Context, projectID uint) error
}

// Service orchestrates the subscription lifecycle across the local database
// and the payment processor. Each workflow is a single sequential pipeline
// that stops at the first failure and forwards it untouched; no step retries
// and no step compensates already-provisioned processor resources or
// committed local writes. There is no cross-step transaction, so a processor
// subscription can briefly exist without a local mirror; the webhook path is
// the designed recovery mechanism for that divergence.
type Service struct {
	projects      repository.ProjectRepository
	users         repository.UserRepository
	customers     repository.CustomerRepository
	subscriptions repository.SubscriptionRepository
	client        ProcessorClient
	customerProv  CustomerProvisioner
	cardProv      CardProvisioner
	effects       Effects
}

// NewService wires the orchestrator from its collaborators. The processor
// client is injected so tests can substitute a fake without touching
// process-wide state.
func NewService(
	repos *repository.Repositories,
	client ProcessorClient,
	customerProv CustomerProvisioner,
	cardProv CardProvisioner,
	effects Effects,
) *Service {
	return &Service{
		projects:      repos.Project,
		users:         repos.User,
		customers:     repos.Customer,
		subscriptions: repos.Subscription,
		client:        client,
		customerProv:  customerProv,
		cardProv:      cardProv,
		effects:       effects,
	}
}

// FindOrCreateParams is the request shape of the find-or-create workflow.
type FindOrCreateParams struct {
	ProjectID uint  `json:"project_id" validate:"required"`
	UserID    uint  `json:"user_id" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"required,min=1"`
}

func (p FindOrCreateParams) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// FindOrCreate returns the existing subscription for the project's plan and
// the user, or provisions one end to end: readiness gates, connect customer
// and card provisioning, processor create with the fixed application fee,
// adapter mapping, validated insert. The (plan, user) lookup is the single
// idempotency checkpoint; the unique index over (plan_id, user_id) is the
// authoritative guard when two first-time calls race past it.
func (s *Service) FindOrCreate(ctx context.Context, p FindOrCreateParams) (*models.Subscription, error) {
	project, err := s.projects.GetForSubscription(p.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if err := ValidateProjectReady(project); err != nil {
		return nil, err
	}

	user, err := s.users.GetForSubscription(p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := ValidateUserReady(user); err != nil {
		return nil, err
	}

	existing, err := s.subscriptions.GetByPlanAndUser(project.Plan.ID, user.ID)
	if err == nil {
		s.runEffects(ctx, project.ID)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub, err := s.create(ctx, project, user, p.Quantity)
	if err != nil {
		return nil, err
	}

	s.runEffects(ctx, project.ID)
	return sub, nil
}

func (s *Service) create(ctx context.Context, project *models.Project, user *models.User, quantity int64) (*models.Subscription, error) {
	account := project.ConnectAccount()

	connectCustomer, err := s.customerProv.EnsureCustomer(ctx, user, account)
	if err != nil {
		return nil, err
	}
	card, err := s.cardProv.EnsureCard(ctx, connectCustomer, user, account)
	if err != nil {
		return nil, err
	}

	created, err := s.client.CreateSubscription(ctx, CreateSubscriptionParams{
		CustomerID:            connectCustomer.StripeCustomerID,
		PlanID:                project.Plan.StripePlanID,
		Quantity:              quantity,
		CardID:                card.StripeCardID,
		ApplicationFeePercent: ApplicationFeePercent,
	}, account.StripeAccountID)
	if err != nil {
		return nil, err
	}

	sub := SubscriptionAttrs(created, Extra{PlanID: project.Plan.ID, UserID: user.ID})
	if err := sub.Validate(); err != nil {
		log.Errorf("subscription %s created on stripe but failed local validation: %v", created.ID, err)
		return nil, err
	}
	if err := s.subscriptions.Create(sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the lookup-then-insert race; the unique index over
			// (plan_id, user_id) caught it. Return the winner.
			return s.subscriptions.GetByPlanAndUser(project.Plan.ID, user.ID)
		}
		log.Errorf("subscription %s created on stripe but local insert failed: %v", created.ID, err)
		return nil, err
	}
	return sub, nil
}

// UpdateFromStripe synchronizes the local mirror with the processor state
// reported by a webhook event. It never creates a record; a subscription id
// with no local mirror is a not-found. Only the webhook-mutable columns are
// written, identity columns never change here.
func (s *Service) UpdateFromStripe(ctx context.Context, subscriptionID, connectCustomerID string) (*models.Subscription, error) {
	customer, err := s.customers.GetByStripeID(connectCustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectAccountNotFound
		}
		return nil, err
	}
	if customer.ConnectAccount == nil {
		return nil, ErrConnectAccountNotFound
	}

	remote, err := s.client.GetSubscription(ctx, subscriptionID, customer.ConnectAccount.StripeAccountID)
	if err != nil {
		return nil, err
	}

	local, err := s.subscriptions.GetByStripeID(subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	attrs := SubscriptionAttrs(remote, Extra{})

	project, err := s.projects.GetByPlanID(local.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if err := s.subscriptions.UpdateFromWebhook(local.ID, attrs); err != nil {
		return nil, err
	}
	updated, err := s.subscriptions.GetByStripeID(subscriptionID)
	if err != nil {
		return nil, err
	}

	s.runEffects(ctx, project.ID)
	return updated, nil
}

// runEffects recomputes project totals and donation goals after a committed
// write. Effect failures are logged, not propagated: the subscription is
// already committed and must not look failed to the caller.
func (s *Service) runEffects(ctx context.Context, projectID uint) {
	if s.effects == nil {
		return
	}
	if err := s.effects.RecomputeProject(ctx, projectID); err != nil {
		log.Errorf("funding recompute failed for project %d: %v", projectID, err)
	}
}
