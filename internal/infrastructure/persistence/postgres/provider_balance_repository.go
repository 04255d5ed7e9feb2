package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// Compile-time check
var _ ports.ProviderBalanceRepository = (*ProviderBalanceRepository)(nil)

// ProviderBalanceRepository persists the one-row-per-provider liquidity
// singleton against payment_provider_balances.
type ProviderBalanceRepository struct {
	pool *pgxpool.Pool
}

// NewProviderBalanceRepository создаёт новый ProviderBalanceRepository.
func NewProviderBalanceRepository(pool *pgxpool.Pool) *ProviderBalanceRepository {
	return &ProviderBalanceRepository{pool: pool}
}

// FindByProviderForUpdate takes a row lock — callers must run this inside a
// UnitOfWork transaction, mirroring WalletAccountRepository's pattern.
func (r *ProviderBalanceRepository) FindByProviderForUpdate(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error) {
	db := dbFrom(ctx, r.pool)
	var (
		id          int64
		currency    string
		amountStr   string
		updatedAt   time.Time
	)
	err := db.QueryRow(ctx,
		`SELECT id, currency, available_amount, updated_at
		 FROM payment_provider_balances WHERE provider = $1 FOR UPDATE`,
		string(provider),
	).Scan(&id, &currency, &amountStr, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	curr, err := valueobjects.NewCurrency(currency)
	if err != nil {
		return nil, fmt.Errorf("%w: stored currency %q: %v", domainerrors.ErrStorage, currency, err)
	}
	amount, ok := new(big.Rat).SetString(amountStr)
	if !ok {
		return nil, fmt.Errorf("%w: stored amount %q is not a valid decimal", domainerrors.ErrStorage, amountStr)
	}
	return entities.ReconstructPaymentProviderBalance(id, provider, curr, amount, updatedAt), nil
}

func (r *ProviderBalanceRepository) Create(ctx context.Context, balance *entities.PaymentProviderBalance) error {
	db := dbFrom(ctx, r.pool)
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO payment_provider_balances (provider, currency, available_amount, updated_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		string(balance.Provider()), balance.Currency().Code(), balance.AvailableDecimal(), balance.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: balance row already exists for provider", domainerrors.ErrEntityAlreadyExists)
		}
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	balance.AssignID(id)
	return nil
}

func (r *ProviderBalanceRepository) Update(ctx context.Context, balance *entities.PaymentProviderBalance) error {
	db := dbFrom(ctx, r.pool)
	tag, err := db.Exec(ctx,
		`UPDATE payment_provider_balances SET available_amount = $1, updated_at = $2 WHERE id = $3`,
		balance.AvailableDecimal(), balance.UpdatedAt(), balance.ID(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.ErrEntityNotFound
	}
	return nil
}
