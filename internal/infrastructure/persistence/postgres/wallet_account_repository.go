package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// Compile-time check
var _ ports.WalletAccountRepository = (*WalletAccountRepository)(nil)

// WalletAccountRepository persists entities.WalletAccount against the
// wallet_accounts table, unique on (wallet_id, currency, kind).
type WalletAccountRepository struct {
	pool *pgxpool.Pool
}

// NewWalletAccountRepository создаёт новый WalletAccountRepository.
func NewWalletAccountRepository(pool *pgxpool.Pool) *WalletAccountRepository {
	return &WalletAccountRepository{pool: pool}
}

func (r *WalletAccountRepository) scanAccount(row pgx.Row) (*entities.WalletAccount, error) {
	var (
		id, walletID int64
		currencyCode string
		kind         string
		amountStr    string
		updatedAt    time.Time
	)
	if err := row.Scan(&id, &walletID, &currencyCode, &kind, &amountStr, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrNoWallet
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	currency, err := valueobjects.NewCurrency(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("%w: stored currency %q: %v", domainerrors.ErrStorage, currencyCode, err)
	}
	amount, err := valueobjects.NewMoney(amountStr, currency)
	if err != nil {
		return nil, fmt.Errorf("%w: stored amount %q: %v", domainerrors.ErrStorage, amountStr, err)
	}
	return entities.ReconstructWalletAccount(id, walletID, currency, valueobjects.AccountKind(kind), amount, updatedAt), nil
}

func (r *WalletAccountRepository) FindByWalletAndCurrency(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx,
		`SELECT id, wallet_id, currency, kind, amount, updated_at
		 FROM wallet_accounts WHERE wallet_id = $1 AND currency = $2`,
		walletID, currency.Code(),
	)
	return r.scanAccount(row)
}

// FindByWalletAndCurrencyForUpdate takes a row lock (SELECT ... FOR UPDATE)
// — callers must run this inside a UnitOfWork transaction so the lock is
// held until commit.
func (r *WalletAccountRepository) FindByWalletAndCurrencyForUpdate(ctx context.Context, walletID int64, currency valueobjects.Currency) (*entities.WalletAccount, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx,
		`SELECT id, wallet_id, currency, kind, amount, updated_at
		 FROM wallet_accounts WHERE wallet_id = $1 AND currency = $2 FOR UPDATE`,
		walletID, currency.Code(),
	)
	return r.scanAccount(row)
}

func (r *WalletAccountRepository) FindByWallet(ctx context.Context, walletID int64) ([]*entities.WalletAccount, error) {
	db := dbFrom(ctx, r.pool)
	rows, err := db.Query(ctx,
		`SELECT id, wallet_id, currency, kind, amount, updated_at
		 FROM wallet_accounts WHERE wallet_id = $1 ORDER BY currency`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	defer rows.Close()

	var accounts []*entities.WalletAccount
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	return accounts, nil
}

func (r *WalletAccountRepository) Create(ctx context.Context, account *entities.WalletAccount) error {
	db := dbFrom(ctx, r.pool)
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO wallet_accounts (wallet_id, currency, kind, amount, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		account.WalletID(), account.Currency().Code(), string(account.Kind()), account.Amount().Decimal(), account.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: account already exists for wallet/currency", domainerrors.ErrEntityAlreadyExists)
		}
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	account.AssignID(id)
	return nil
}

func (r *WalletAccountRepository) Update(ctx context.Context, account *entities.WalletAccount) error {
	db := dbFrom(ctx, r.pool)
	tag, err := db.Exec(ctx,
		`UPDATE wallet_accounts SET amount = $1, updated_at = $2 WHERE id = $3`,
		account.Amount().Decimal(), account.UpdatedAt(), account.ID(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.ErrNoWallet
	}
	return nil
}
