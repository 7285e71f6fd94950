package payments

import (
	"context"
	"testing"

	"github.com/pledgekit/pledgekit/app/models"
)

func TestEnsureCustomer_ReusesLocalMirror(t *testing.T) {
	existing := &models.Customer{ID: 6, Kind: models.CustomerKindConnect, StripeCustomerID: "cus_conn"}
	customers := &stubCustomers{connect: existing}
	client := &stubClient{}
	prov := NewStripeProvisioner(client, customers)

	got, err := prov.EnsureCustomer(context.Background(), readyUser(), readyProject().ConnectAccount())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing connect customer, got %+v", got)
	}
	if len(customers.created) != 0 {
		t.Fatalf("expected no new customer mirror, got %d", len(customers.created))
	}
}

func TestEnsureCustomer_ProvisionsAndMirrors(t *testing.T) {
	customers := &stubCustomers{}
	client := &stubClient{}
	prov := NewStripeProvisioner(client, customers)

	account := readyProject().ConnectAccount()
	got, err := prov.EnsureCustomer(context.Background(), readyUser(), account)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StripeCustomerID != "cus_conn" {
		t.Fatalf("expected mirror of the created stripe customer, got %+v", got)
	}
	if got.Kind != models.CustomerKindConnect {
		t.Fatalf("expected a connect-scoped customer, got kind %q", got.Kind)
	}
	if got.ConnectAccountID == nil || *got.ConnectAccountID != account.ID {
		t.Fatalf("expected customer bound to connect account %d", account.ID)
	}
	if len(customers.created) != 1 {
		t.Fatalf("expected one persisted mirror, got %d", len(customers.created))
	}
}

func TestEnsureCard_ReusesDefaultCard(t *testing.T) {
	card := models.Card{ID: 10, CustomerID: 6, StripeCardID: "card_conn", IsDefault: true}
	connect := &models.Customer{ID: 6, Kind: models.CustomerKindConnect, StripeCustomerID: "cus_conn", Cards: []models.Card{card}}
	customers := &stubCustomers{}
	prov := NewStripeProvisioner(&stubClient{}, customers)

	got, err := prov.EnsureCard(context.Background(), connect, readyUser(), readyProject().ConnectAccount())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StripeCardID != "card_conn" {
		t.Fatalf("expected the existing default card, got %+v", got)
	}
	if len(customers.cards) != 0 {
		t.Fatalf("expected no new card mirror, got %d", len(customers.cards))
	}
}

func TestEnsureCard_SharesPlatformSource(t *testing.T) {
	connect := &models.Customer{ID: 6, Kind: models.CustomerKindConnect, StripeCustomerID: "cus_conn"}
	customers := &stubCustomers{}
	prov := NewStripeProvisioner(&stubClient{}, customers)

	got, err := prov.EnsureCard(context.Background(), connect, readyUser(), readyProject().ConnectAccount())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StripeCardID != "card_conn" {
		t.Fatalf("expected mirror of the shared card, got %+v", got)
	}
	if !got.IsDefault {
		t.Fatalf("expected the provisioned card to be the default")
	}
	if got.CustomerID != connect.ID {
		t.Fatalf("expected card attached to connect customer %d, got %d", connect.ID, got.CustomerID)
	}
	if len(customers.cards) != 1 {
		t.Fatalf("expected one persisted card mirror, got %d", len(customers.cards))
	}
}
