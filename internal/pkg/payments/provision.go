package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/pledgekit/pledgekit/app/models"
	"github.com/pledgekit/pledgekit/app/repository"
	"gorm.io/gorm"
)

// CustomerProvisioner ensures a connect-scoped customer exists for a user on
// a connected account. Created lazily on first use, reused thereafter.
type CustomerProvisioner interface {
	EnsureCustomer(ctx context.Context, user *models.User, account *models.ConnectAccount) (*models.Customer, error)
}

// CardProvisioner ensures the connect-scoped customer carries a default card
// derived from the user's platform card.
type CardProvisioner interface {
	EnsureCard(ctx context.Context, connectCustomer *models.Customer, user *models.User, account *models.ConnectAccount) (*models.Card, error)
}

// StripeProvisioner provisions connect customers and cards through the
// processor client and mirrors them locally. Provisioned resources are never
// compensated on later workflow failure; they are reusable.
type StripeProvisioner struct {
	client    ProcessorClient
	customers repository.CustomerRepository
}

// NewStripeProvisioner creates a provisioner over the given client and
// customer repository.
func NewStripeProvisioner(client ProcessorClient, customers repository.CustomerRepository) *StripeProvisioner {
	return &StripeProvisioner{client: client, customers: customers}
}

func (p *StripeProvisioner) EnsureCustomer(ctx context.Context, user *models.User, account *models.ConnectAccount) (*models.Customer, error) {
	existing, err := p.customers.GetConnectCustomer(user.ID, account.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created, err := p.client.CreateCustomer(ctx, CreateCustomerParams{
		Email:       user.Email,
		Description: fmt.Sprintf("pledgekit user #%d", user.ID),
	}, account.StripeAccountID)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		UserID:           user.ID,
		Kind:             models.CustomerKindConnect,
		ConnectAccountID: &account.ID,
		StripeCustomerID: created.ID,
		Email:            user.Email,
	}
	if err := p.customers.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (p *StripeProvisioner) EnsureCard(ctx context.Context, connectCustomer *models.Customer, user *models.User, account *models.ConnectAccount) (*models.Card, error) {
	if card := connectCustomer.DefaultCard(); card != nil {
		return card, nil
	}

	// Share the platform customer's default source onto the connected
	// account, then attach it to the connect customer.
	token, err := p.client.CreateSharedToken(ctx, user.Customer.StripeCustomerID, account.StripeAccountID)
	if err != nil {
		return nil, err
	}
	created, err := p.client.CreateCard(ctx, connectCustomer.StripeCustomerID, token.ID, account.StripeAccountID)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		CustomerID:   connectCustomer.ID,
		StripeCardID: created.ID,
		Brand:        string(created.Brand),
		Last4:        created.Last4,
		ExpMonth:     int(created.ExpMonth),
		ExpYear:      int(created.ExpYear),
		IsDefault:    true,
	}
	if err := p.customers.CreateCard(card); err != nil {
		return nil, err
	}
	return card, nil
}
