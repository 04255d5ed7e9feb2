package transaction

import (
	"context"
	"testing"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
)

func TestConnectAccountStripeUseCase_Execute_CreatesAccountOnFirstCall(t *testing.T) {
	var created *entities.ProviderLinkedAccount

	linkedRepo := &mockProviderLinkedAccountRepo{
		createFunc: func(ctx context.Context, account *entities.ProviderLinkedAccount) error {
			created = account
			return nil
		},
	}
	provider := &mockProvider{
		createConnectedAccountFunc: func(ctx context.Context, in ports.ConnectedAccountInput) (string, error) {
			return "acct_new", nil
		},
		onboardingLinkFunc: func(ctx context.Context, externalAccountID string) (string, error) {
			return "https://connect.example/onboard/" + externalAccountID, nil
		},
	}

	uc := NewConnectAccountStripeUseCase(linkedRepo, provider, &mockUnitOfWork{})

	result, err := uc.Execute(context.Background(), dtos.ConnectAccountStripeCommand{UserID: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.ExternalAccountID() != "acct_new" {
		t.Fatalf("expected a new linked account to be created")
	}
	if result.RedirectURL != "https://connect.example/onboard/acct_new" {
		t.Fatalf("unexpected redirect url: %s", result.RedirectURL)
	}
}

func TestConnectAccountStripeUseCase_Execute_ReusesExistingAccount(t *testing.T) {
	existing := entities.NewProviderLinkedAccount(8, entities.ProviderStripe, "acct_existing")

	linkedRepo := &mockProviderLinkedAccountRepo{
		findByUserIDFunc: func(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error) {
			return existing, nil
		},
		createFunc: func(ctx context.Context, account *entities.ProviderLinkedAccount) error {
			t.Fatalf("should not create a new account when one is already linked")
			return nil
		},
	}
	provider := &mockProvider{
		onboardingLinkFunc: func(ctx context.Context, externalAccountID string) (string, error) {
			return "https://connect.example/onboard/" + externalAccountID, nil
		},
	}

	uc := NewConnectAccountStripeUseCase(linkedRepo, provider, &mockUnitOfWork{})

	result, err := uc.Execute(context.Background(), dtos.ConnectAccountStripeCommand{UserID: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RedirectURL != "https://connect.example/onboard/acct_existing" {
		t.Fatalf("unexpected redirect url: %s", result.RedirectURL)
	}
}
