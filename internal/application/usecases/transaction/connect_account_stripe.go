package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
)

// ConnectAccountStripeUseCase creates (or reuses) a user's Stripe connected
// account and returns the onboarding link the client redirects to (spec §6:
// ConnectAccountStripe).
type ConnectAccountStripeUseCase struct {
	linkedAccountRepo ports.ProviderLinkedAccountRepository
	provider          ports.Provider
	uow               ports.UnitOfWork
}

// NewConnectAccountStripeUseCase wires a ConnectAccountStripeUseCase.
func NewConnectAccountStripeUseCase(
	linkedAccountRepo ports.ProviderLinkedAccountRepository,
	provider ports.Provider,
	uow ports.UnitOfWork,
) *ConnectAccountStripeUseCase {
	return &ConnectAccountStripeUseCase{linkedAccountRepo: linkedAccountRepo, provider: provider, uow: uow}
}

// Execute creates the connected account on first call, and re-issues a
// fresh onboarding link on every subsequent call.
func (uc *ConnectAccountStripeUseCase) Execute(ctx context.Context, cmd dtos.ConnectAccountStripeCommand) (*dtos.RedirectDTO, error) {
	var result *dtos.RedirectDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		account, err := uc.linkedAccountRepo.FindByUserID(txCtx, cmd.UserID, entities.ProviderStripe)
		if err != nil {
			if !errors.Is(err, domainerrors.ErrNoProviderAccount) {
				return fmt.Errorf("find linked account: %w", err)
			}

			externalAccountID, err := uc.provider.CreateConnectedAccount(txCtx, ports.ConnectedAccountInput{UserID: cmd.UserID})
			if err != nil {
				return fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
			}

			account = entities.NewProviderLinkedAccount(cmd.UserID, entities.ProviderStripe, externalAccountID)
			if err := uc.linkedAccountRepo.Create(txCtx, account); err != nil {
				return fmt.Errorf("create linked account: %w", err)
			}
		}

		redirectURL, err := uc.provider.OnboardingLink(txCtx, account.ExternalAccountID())
		if err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrProvider, err)
		}

		result = &dtos.RedirectDTO{RedirectURL: redirectURL}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
