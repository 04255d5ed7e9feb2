package postgres

import (
	"context"
	"database/sql"
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
var _ ports.ProviderLinkedAccountRepository = (*ProviderLinkedAccountRepository)(nil)

// ProviderLinkedAccountRepository persists entities.ProviderLinkedAccount
// against provider_linked_accounts, unique on (user_id, provider).
type ProviderLinkedAccountRepository struct {
	pool *pgxpool.Pool
}

// NewProviderLinkedAccountRepository создаёт новый ProviderLinkedAccountRepository.
func NewProviderLinkedAccountRepository(pool *pgxpool.Pool) *ProviderLinkedAccountRepository {
	return &ProviderLinkedAccountRepository{pool: pool}
}

func (r *ProviderLinkedAccountRepository) scan(row pgx.Row) (*entities.ProviderLinkedAccount, error) {
	var (
		id, userID                   int64
		provider, externalAccountID string
		onboardingComplete           bool
		disabledReason               sql.NullString
		createdAt, updatedAt         time.Time
	)
	err := row.Scan(&id, &userID, &provider, &externalAccountID, &onboardingComplete, &disabledReason, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrNoProviderAccount
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	return entities.ReconstructProviderLinkedAccount(
		id, userID, entities.Provider(provider), externalAccountID,
		onboardingComplete, disabledReason.String, createdAt, updatedAt,
	), nil
}

func (r *ProviderLinkedAccountRepository) FindByUserID(ctx context.Context, userID int64, provider entities.Provider) (*entities.ProviderLinkedAccount, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx,
		`SELECT id, user_id, provider, external_account_id, onboarding_complete, disabled_reason, created_at, updated_at
		 FROM provider_linked_accounts WHERE user_id = $1 AND provider = $2`,
		userID, string(provider),
	)
	return r.scan(row)
}

func (r *ProviderLinkedAccountRepository) Create(ctx context.Context, account *entities.ProviderLinkedAccount) error {
	db := dbFrom(ctx, r.pool)
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO provider_linked_accounts
			(user_id, provider, external_account_id, onboarding_complete, disabled_reason, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		account.UserID(), string(account.Provider()), account.ExternalAccountID(),
		false, nullIfEmpty(account.DisabledReason()), account.CreatedAt(), account.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: linked account already exists for user/provider", domainerrors.ErrEntityAlreadyExists)
		}
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	account.AssignID(id)
	return nil
}

func (r *ProviderLinkedAccountRepository) Update(ctx context.Context, account *entities.ProviderLinkedAccount) error {
	db := dbFrom(ctx, r.pool)
	tag, err := db.Exec(ctx,
		`UPDATE provider_linked_accounts
		 SET onboarding_complete = $1, disabled_reason = $2, updated_at = $3
		 WHERE id = $4`,
		account.OnboardingComplete(), nullIfEmpty(account.DisabledReason()), account.UpdatedAt(), account.ID(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.ErrNoProviderAccount
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
