package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
	"github.com/wallethub/core/internal/domain/valueobjects"
)

// Compile-time check
var _ ports.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository persists the append-only entities.Transaction
// ledger against the wallet_transactions table.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository создаёт новый TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const txSelectColumns = `id, user_id, wallet_id, from_wallet_id, to_wallet_id,
	currency, from_currency, to_currency, amount, operation, status,
	correlation_id, external_id, idempotency_key, provider, created_at`

func (r *TransactionRepository) scan(row pgx.Row) (*entities.Transaction, error) {
	var (
		id, userID, walletID       int64
		fromWalletID, toWalletID   sql.NullInt64
		currency, from, to        sql.NullString
		amountStr                 string
		operation, status         string
		correlationID             uuid.UUID
		externalID, idempotencyKey string
		provider                  string
		date                      time.Time
	)
	err := row.Scan(
		&id, &userID, &walletID, &fromWalletID, &toWalletID,
		&currency, &from, &to, &amountStr, &operation, &status,
		&correlationID, &externalID, &idempotencyKey, &provider, &date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}

	var displayCurrency valueobjects.Currency
	var currencyPtr, fromPtr, toPtr *valueobjects.Currency
	if currency.Valid {
		c, err := valueobjects.NewCurrency(currency.String)
		if err != nil {
			return nil, fmt.Errorf("%w: stored currency %q: %v", domainerrors.ErrStorage, currency.String, err)
		}
		currencyPtr = &c
		displayCurrency = c
	}
	if from.Valid {
		c, err := valueobjects.NewCurrency(from.String)
		if err != nil {
			return nil, fmt.Errorf("%w: stored from_currency %q: %v", domainerrors.ErrStorage, from.String, err)
		}
		fromPtr = &c
		displayCurrency = c
	}
	if to.Valid {
		c, err := valueobjects.NewCurrency(to.String)
		if err != nil {
			return nil, fmt.Errorf("%w: stored to_currency %q: %v", domainerrors.ErrStorage, to.String, err)
		}
		toPtr = &c
	}

	amount, err := valueobjects.NewMoney(amountStr, displayCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: stored amount %q: %v", domainerrors.ErrStorage, amountStr, err)
	}

	var fromWalletPtr, toWalletPtr *int64
	if fromWalletID.Valid {
		v := fromWalletID.Int64
		fromWalletPtr = &v
	}
	if toWalletID.Valid {
		v := toWalletID.Int64
		toWalletPtr = &v
	}

	return entities.ReconstructTransaction(
		id, userID, walletID,
		fromWalletPtr, toWalletPtr,
		currencyPtr, fromPtr, toPtr,
		amount,
		entities.OperationType(operation),
		entities.TransactionStatus(status),
		correlationID,
		externalID, idempotencyKey,
		entities.Provider(provider),
		date,
	), nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	db := dbFrom(ctx, r.pool)

	var currency, from, to *string
	if tx.Currency() != nil {
		c := tx.Currency().Code()
		currency = &c
	}
	if tx.FromCurrency() != nil {
		c := tx.FromCurrency().Code()
		from = &c
	}
	if tx.ToCurrency() != nil {
		c := tx.ToCurrency().Code()
		to = &c
	}

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO wallet_transactions
			(user_id, wallet_id, from_wallet_id, to_wallet_id, currency, from_currency, to_currency,
			 amount, operation, status, correlation_id, external_id, idempotency_key, provider, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		 RETURNING id`,
		tx.UserID(), tx.WalletID(), tx.FromWalletID(), tx.ToWalletID(), currency, from, to,
		tx.Amount().Decimal(), string(tx.Operation()), string(tx.Status()),
		tx.CorrelationID(), tx.ExternalID(), tx.IdempotencyKey(), string(tx.Provider()), tx.Date(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "idempotency_key") {
			return domainerrors.ErrIdempotentlyDone
		}
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	tx.AssignID(id)
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*entities.Transaction, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx, `SELECT `+txSelectColumns+` FROM wallet_transactions WHERE id = $1`, id)
	return r.scan(row)
}

func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entities.Transaction, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx, `SELECT `+txSelectColumns+` FROM wallet_transactions WHERE idempotency_key = $1`, key)
	return r.scan(row)
}

func (r *TransactionRepository) FindByCorrelationID(ctx context.Context, correlationID uuid.UUID) (*entities.Transaction, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx, `SELECT `+txSelectColumns+` FROM wallet_transactions WHERE correlation_id = $1`, correlationID)
	return r.scan(row)
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status entities.TransactionStatus) error {
	db := dbFrom(ctx, r.pool)
	tag, err := db.Exec(ctx, `UPDATE wallet_transactions SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.ErrEntityNotFound
	}
	return nil
}

func (r *TransactionRepository) SetExternalID(ctx context.Context, id int64, externalID string) error {
	db := dbFrom(ctx, r.pool)
	tag, err := db.Exec(ctx, `UPDATE wallet_transactions SET external_id = $1 WHERE id = $2`, externalID, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.ErrEntityNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID int64, offset, limit int) ([]*entities.Transaction, error) {
	db := dbFrom(ctx, r.pool)
	rows, err := db.Query(ctx,
		`SELECT `+txSelectColumns+` FROM wallet_transactions
		 WHERE wallet_id = $1 OR from_wallet_id = $1 OR to_wallet_id = $1
		 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		walletID, offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	defer rows.Close()

	var txs []*entities.Transaction
	for rows.Next() {
		tx, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	return txs, nil
}
