package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"

	"github.com/pledgekit/pledgekit/app/models"
	"github.com/pledgekit/pledgekit/app/repository"
	"github.com/pledgekit/pledgekit/internal/pkg/payments"
)

type fakeProjects struct {
	forSubscription *models.Project
	byPlan          *models.Project
}

func (f *fakeProjects) Create(*models.Project) error            { return nil }
func (f *fakeProjects) GetByID(uint) (*models.Project, error)   { return nil, gorm.ErrRecordNotFound }
func (f *fakeProjects) Update(*models.Project) error            { return nil }
func (f *fakeProjects) List(int, int) ([]models.Project, error) { return nil, nil }
func (f *fakeProjects) Count() (int64, error)                   { return 0, nil }
func (f *fakeProjects) GetForSubscription(uint) (*models.Project, error) {
	if f.forSubscription == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.forSubscription, nil
}
func (f *fakeProjects) GetByPlanID(uint) (*models.Project, error) {
	if f.byPlan == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.byPlan, nil
}

type fakeUsers struct {
	forSubscription *models.User
}

func (f *fakeUsers) Create(*models.User) error               { return nil }
func (f *fakeUsers) GetByID(uint) (*models.User, error)      { return nil, gorm.ErrRecordNotFound }
func (f *fakeUsers) GetByEmail(string) (*models.User, error) { return nil, gorm.ErrRecordNotFound }
func (f *fakeUsers) Update(*models.User) error               { return nil }
func (f *fakeUsers) Count() (int64, error)                   { return 0, nil }
func (f *fakeUsers) GetForSubscription(uint) (*models.User, error) {
	if f.forSubscription == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.forSubscription, nil
}

type fakeCustomers struct {
	byStripeID *models.Customer
}

func (f *fakeCustomers) Create(*models.Customer) error { return nil }
func (f *fakeCustomers) GetByStripeID(string) (*models.Customer, error) {
	if f.byStripeID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.byStripeID, nil
}
func (f *fakeCustomers) GetConnectCustomer(uint, uint) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCustomers) CreateCard(*models.Card) error { return nil }

type fakeChange struct {
	id  uint
	sub *models.Subscription
}

type fakeSubscriptions struct {
	byPlanUser *models.Subscription
	byStripeID *models.Subscription
	created    []*models.Subscription
	updates    []fakeChange
}

func (f *fakeSubscriptions) GetByPlanAndUser(uint, uint) (*models.Subscription, error) {
	if f.byPlanUser == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.byPlanUser, nil
}
func (f *fakeSubscriptions) GetByStripeID(string) (*models.Subscription, error) {
	if f.byStripeID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.byStripeID, nil
}
func (f *fakeSubscriptions) Create(sub *models.Subscription) error {
	f.created = append(f.created, sub)
	return nil
}
func (f *fakeSubscriptions) UpdateFromWebhook(id uint, sub *models.Subscription) error {
	f.updates = append(f.updates, fakeChange{id: id, sub: sub})
	return nil
}
func (f *fakeSubscriptions) ListByUser(uint) ([]models.Subscription, error) { return nil, nil }

type fakeProcessor struct {
	getResult    *stripe.Subscription
	getErr       error
	getCalls     int
	createResult *stripe.Subscription
	createErr    error
}

func (f *fakeProcessor) GetSubscription(context.Context, string, string) (*stripe.Subscription, error) {
	f.getCalls++
	return f.getResult, f.getErr
}
func (f *fakeProcessor) CreateSubscription(context.Context, payments.CreateSubscriptionParams, string) (*stripe.Subscription, error) {
	return f.createResult, f.createErr
}
func (f *fakeProcessor) CreateCustomer(context.Context, payments.CreateCustomerParams, string) (*stripe.Customer, error) {
	return &stripe.Customer{ID: "cus_conn"}, nil
}
func (f *fakeProcessor) CreateSharedToken(context.Context, string, string) (*stripe.Token, error) {
	return &stripe.Token{ID: "tok_shared"}, nil
}
func (f *fakeProcessor) CreateCard(context.Context, string, string, string) (*stripe.Card, error) {
	return &stripe.Card{ID: "card_conn"}, nil
}

type fakeProvisioner struct{}

func (f *fakeProvisioner) EnsureCustomer(context.Context, *models.User, *models.ConnectAccount) (*models.Customer, error) {
	return &models.Customer{ID: 6, Kind: models.CustomerKindConnect, StripeCustomerID: "cus_conn"}, nil
}
func (f *fakeProvisioner) EnsureCard(context.Context, *models.Customer, *models.User, *models.ConnectAccount) (*models.Card, error) {
	return &models.Card{ID: 10, CustomerID: 6, StripeCardID: "card_conn", IsDefault: true}, nil
}

type fakeEffects struct {
	projects []uint
}

func (f *fakeEffects) RecomputeProject(_ context.Context, projectID uint) error {
	f.projects = append(f.projects, projectID)
	return nil
}

func chargeableProject() *models.Project {
	return &models.Project{
		ID:             1,
		OrganizationID: 3,
		Name:           "Solar Roof",
		State:          models.ProjectStateOnline,
		Plan:           &models.Plan{ID: 11, ProjectID: 1, StripePlanID: "plan_solar", AmountCents: 500},
		Organization: models.Organization{
			ID: 3,
			ConnectAccount: &models.ConnectAccount{
				ID:              7,
				OrganizationID:  3,
				StripeAccountID: "acct_42",
				ChargesEnabled:  true,
			},
		},
	}
}

func backerUser() *models.User {
	return &models.User{
		ID:     21,
		Name:   "Ada Backer",
		Email:  "ada@example.com",
		Status: models.STATUS_ACTIVE,
		Customer: &models.Customer{
			ID:               5,
			UserID:           21,
			Kind:             models.CustomerKindPlatform,
			StripeCustomerID: "cus_platform",
			Cards: []models.Card{
				{ID: 9, CustomerID: 5, StripeCardID: "card_platform", IsDefault: true},
			},
		},
	}
}

func processorSubscription(id string, quantity int64) *stripe.Subscription {
	return &stripe.Subscription{
		ID:     id,
		Status: stripe.SubscriptionStatusActive,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{{Quantity: quantity}},
		},
	}
}

func newSubscriptionTestApp(projects *fakeProjects, users *fakeUsers, subs *fakeSubscriptions, proc *fakeProcessor) *fiber.App {
	repos := &repository.Repositories{
		Project:      projects,
		User:         users,
		Customer:     &fakeCustomers{},
		Subscription: subs,
	}
	prov := &fakeProvisioner{}
	subscriptionService = payments.NewService(repos, proc, prov, prov, &fakeEffects{})

	app := fiber.New()
	app.Post("/api/v1/subscriptions", HandleSubscriptionCreate)
	return app
}

func postSubscription(t *testing.T, app *fiber.App, body string) (map[string]interface{}, int) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded, resp.StatusCode
}

func TestHandleSubscriptionCreate_InvalidBody(t *testing.T) {
	app := newSubscriptionTestApp(&fakeProjects{}, &fakeUsers{}, &fakeSubscriptions{}, &fakeProcessor{})

	body, status := postSubscription(t, app, "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", body["error"])
}

func TestHandleSubscriptionCreate_MissingFields(t *testing.T) {
	app := newSubscriptionTestApp(&fakeProjects{}, &fakeUsers{}, &fakeSubscriptions{}, &fakeProcessor{})

	for _, body := range []string{
		`{}`,
		`{"project_id":1,"user_id":21}`,
		`{"project_id":1,"quantity":1}`,
		`{"user_id":21,"quantity":1}`,
		`{"project_id":1,"user_id":21,"quantity":-2}`,
	} {
		decoded, status := postSubscription(t, app, body)
		assert.Equal(t, fiber.StatusBadRequest, status, body)
		assert.Equal(t, "project_id, user_id and quantity are required", decoded["error"], body)
	}
}

func TestHandleSubscriptionCreate_UnknownProjectIsNotFound(t *testing.T) {
	app := newSubscriptionTestApp(&fakeProjects{}, &fakeUsers{}, &fakeSubscriptions{}, &fakeProcessor{})

	body, status := postSubscription(t, app, `{"project_id":404,"user_id":21,"quantity":1}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body["error"], "not found")
}

func TestHandleSubscriptionCreate_ProjectNotReady(t *testing.T) {
	project := chargeableProject()
	project.Organization.ConnectAccount = nil
	app := newSubscriptionTestApp(&fakeProjects{forSubscription: project}, &fakeUsers{forSubscription: backerUser()}, &fakeSubscriptions{}, &fakeProcessor{})

	body, status := postSubscription(t, app, `{"project_id":1,"user_id":21,"quantity":1}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "project_not_ready", body["error"])
}

func TestHandleSubscriptionCreate_UserNotReady(t *testing.T) {
	user := backerUser()
	user.Customer = nil
	app := newSubscriptionTestApp(&fakeProjects{forSubscription: chargeableProject()}, &fakeUsers{forSubscription: user}, &fakeSubscriptions{}, &fakeProcessor{})

	body, status := postSubscription(t, app, `{"project_id":1,"user_id":21,"quantity":1}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "user_not_ready", body["error"])
}

func TestHandleSubscriptionCreate_ProcessorErrorIsPaymentRequired(t *testing.T) {
	proc := &fakeProcessor{
		createErr: &stripe.Error{
			Type: stripe.ErrorTypeCard,
			Code: stripe.ErrorCodeCardDeclined,
			Msg:  "card declined",
		},
	}
	app := newSubscriptionTestApp(&fakeProjects{forSubscription: chargeableProject()}, &fakeUsers{forSubscription: backerUser()}, &fakeSubscriptions{}, proc)

	body, status := postSubscription(t, app, `{"project_id":1,"user_id":21,"quantity":1}`)
	assert.Equal(t, fiber.StatusPaymentRequired, status)
	assert.Equal(t, "payment_failed", body["error"])
	assert.Equal(t, string(stripe.ErrorCodeCardDeclined), body["code"])
	assert.Equal(t, "card declined", body["message"])
}

func TestHandleSubscriptionCreate_Success(t *testing.T) {
	subs := &fakeSubscriptions{}
	proc := &fakeProcessor{createResult: processorSubscription("sub_new", 2)}
	app := newSubscriptionTestApp(&fakeProjects{forSubscription: chargeableProject()}, &fakeUsers{forSubscription: backerUser()}, subs, proc)

	body, status := postSubscription(t, app, `{"project_id":1,"user_id":21,"quantity":2}`)
	assert.Equal(t, fiber.StatusOK, status)

	sub, ok := body["subscription"].(map[string]interface{})
	require.True(t, ok, "expected a subscription object in the response")
	assert.Equal(t, "sub_new", sub["stripe_subscription_id"])
	assert.Equal(t, float64(2), sub["quantity"])
	require.Len(t, subs.created, 1)
}
