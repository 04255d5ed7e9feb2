package transaction

import (
	"context"

	"github.com/wallethub/core/internal/application/dtos"
	"github.com/wallethub/core/internal/application/ports"
)

// HandleStripePayoutUseCase ingests a verified, normalized withdraw webhook:
// same mechanics as HandleStripePayment but subtracts from the provider's
// settlement balance and publishes a withdraw work item (spec §6:
// HandleStripePayout).
type HandleStripePayoutUseCase struct {
	deps providerWebhookDeps
}

// NewHandleStripePayoutUseCase wires a HandleStripePayoutUseCase.
func NewHandleStripePayoutUseCase(
	txRepo ports.TransactionRepository,
	balanceRepo ports.ProviderBalanceRepository,
	rateRepo ports.CurrencyRateRepository,
	cache ports.IdempotencyCache,
	producer ports.BusProducer,
	uow ports.UnitOfWork,
	subjectPrefix string,
	partitions int,
) *HandleStripePayoutUseCase {
	return &HandleStripePayoutUseCase{deps: providerWebhookDeps{
		txRepo:        txRepo,
		balanceRepo:   balanceRepo,
		rateRepo:      rateRepo,
		cache:         cache,
		producer:      producer,
		uow:           uow,
		subjectPrefix: subjectPrefix,
		partitions:    partitions,
	}}
}

// Execute ingests a withdraw webhook event.
func (uc *HandleStripePayoutUseCase) Execute(ctx context.Context, cmd dtos.WebhookCommand) (*dtos.WebhookResultDTO, error) {
	return ingestProviderWebhook(ctx, uc.deps, cmd, dtos.OperationWithdraw, false)
}
