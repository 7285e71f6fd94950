package repository

import (
	"github.com/pledgekit/pledgekit/app/models"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a customer repository backed by GORM.
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepository) GetByStripeID(stripeCustomerID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.
		Preload("ConnectAccount").
		Where("stripe_customer_id = ?", stripeCustomerID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetConnectCustomer(userID, connectAccountID uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.
		Preload("Cards").
		Where("user_id = ? AND kind = ? AND connect_account_id = ?", userID, models.CustomerKindConnect, connectAccountID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) CreateCard(card *models.Card) error {
	return r.db.Create(card).Error
}
