// Package ports определяет интерфейсы (порты) для внешних зависимостей.
// Эти интерфейсы реализуются в Infrastructure Layer.
//
// SOLID Principles:
// - DIP: Application зависит от абстракций, не от конкретных реализаций
// - ISP: Каждый интерфейс фокусируется на одной сущности
// - SRP: Repository отвечает только за persistence
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// WalletRepository persists the per-user Wallet aggregate root.
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	FindByID(ctx context.Context, id int64) (*entities.Wallet, error)
	FindByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)
}

// WalletAccountRepository persists currency-and-kind-specific balances.
// FindByWalletAndCurrencyForUpdate takes the row lock the spec requires
// (`SELECT … FOR UPDATE`) — callers use it for every balance mutation, and
// the plain FindByWalletAndCurrency for read-only lookups (GetBalance).
type WalletAccountRepository interface {
	FindByWalletAndCurrency(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error)
	FindByWalletAndCurrencyForUpdate(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error)
	FindByWallet(ctx context.Context, walletID int64) ([]*entities.WalletAccount, error)
	Create(ctx context.Context, account *entities.WalletAccount) error
	Update(ctx context.Context, account *entities.WalletAccount) error
}

// TransactionRepository persists the append-only WalletTransaction ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	FindByID(ctx context.Context, id int64) (*entities.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error)
	FindByCorrelationID(ctx context.Context, correlationID uuid.UUID) (*entities.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status entities.TransactionStatus) error
	SetExternalID(ctx context.Context, id int64, externalID string) error
	ListByWallet(ctx context.Context, walletID int64, offset, limit int) ([]*entities.Transaction, error)
}

// CurrencyRateRepository persists the FX rate table. Upsert is used both by
// the FX refresher and, lazily, wherever a code is first seen.
type CurrencyRateRepository interface {
	FindByCode(ctx context.Context, code string) (*entities.CurrencyRate, error)
	Upsert(ctx context.Context, rate *entities.CurrencyRate) error
	List(ctx context.Context) ([]*entities.CurrencyRate, error)
}

// ProviderBalanceRepository persists the one-row-per-provider liquidity
// singleton. FindByProviderForUpdate takes the row lock the provider-balance
// manager needs before applying a delta.
type ProviderBalanceRepository interface {
	FindByProviderForUpdate(ctx context.Context, provider entities.Provider) (*entities.PaymentProviderBalance, error)
	Create(ctx context.Context, balance *entities.PaymentProviderBalance) error
	Update(ctx context.Context, balance *entities.PaymentProviderBalance) error
}

// ProviderLinkedAccountRepository persists a user's connected account at a
// provider (one per user per provider).
type ProviderLinkedAccountRepository interface {
	FindByUserID(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error)
	Create(ctx context.Context, account *entities.ProviderLinkedAccount) error
	Update(ctx context.Context, account *entities.ProviderLinkedAccount) error
}
