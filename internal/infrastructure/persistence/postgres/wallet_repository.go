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
)

// Compile-time check
var _ ports.WalletRepository = (*WalletRepository)(nil)

// WalletRepository persists entities.Wallet against the wallets table.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository создаёт новый WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	db := dbFrom(ctx, r.pool)
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO wallets (user_id, created_at) VALUES ($1, $2) RETURNING id`,
		wallet.UserID(), wallet.CreatedAt(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: wallet already exists for user", domainerrors.ErrEntityAlreadyExists)
		}
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	wallet.AssignID(id)
	return nil
}

func (r *WalletRepository) FindByID(ctx context.Context, id int64) (*entities.Wallet, error) {
	db := dbFrom(ctx, r.pool)
	var (
		walletID  int64
		userID    int64
		createdAt time.Time
	)
	err := db.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM wallets WHERE id = $1`, id,
	).Scan(&walletID, &userID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrNoWallet
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	return entities.ReconstructWallet(walletID, userID, createdAt), nil
}

func (r *WalletRepository) FindByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	db := dbFrom(ctx, r.pool)
	var (
		walletID  int64
		createdAt time.Time
	)
	err := db.QueryRow(ctx,
		`SELECT id, created_at FROM wallets WHERE user_id = $1`, userID,
	).Scan(&walletID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrNoWallet
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	return entities.ReconstructWallet(walletID, userID, createdAt), nil
}
