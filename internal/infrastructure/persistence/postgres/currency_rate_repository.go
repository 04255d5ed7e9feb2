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
var _ ports.CurrencyRateRepository = (*CurrencyRateRepository)(nil)

// CurrencyRateRepository persists the FX rate table against currency_rates.
type CurrencyRateRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRateRepository создаёт новый CurrencyRateRepository.
func NewCurrencyRateRepository(pool *pgxpool.Pool) *CurrencyRateRepository {
	return &CurrencyRateRepository{pool: pool}
}

func (r *CurrencyRateRepository) scan(row pgx.Row) (*entities.CurrencyRate, error) {
	var (
		id        int64
		code      string
		rateStr   string
		updatedAt time.Time
	)
	if err := row.Scan(&id, &code, &rateStr, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	currency, err := valueobjects.NewCurrency(code)
	if err != nil {
		return nil, fmt.Errorf("%w: stored currency %q: %v", domainerrors.ErrStorage, code, err)
	}
	rate, err := valueobjects.NewRate(rateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: stored rate %q: %v", domainerrors.ErrStorage, rateStr, err)
	}
	return entities.ReconstructCurrencyRate(id, currency, rate, updatedAt), nil
}

func (r *CurrencyRateRepository) FindByCode(ctx context.Context, code string) (*entities.CurrencyRate, error) {
	db := dbFrom(ctx, r.pool)
	row := db.QueryRow(ctx, `SELECT id, code, rate_to_base, updated_at FROM currency_rates WHERE code = $1`, code)
	return r.scan(row)
}

// Upsert inserts or refreshes a currency's rate row, keyed on code.
func (r *CurrencyRateRepository) Upsert(ctx context.Context, rate *entities.CurrencyRate) error {
	db := dbFrom(ctx, r.pool)
	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO currency_rates (code, rate_to_base, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (code) DO UPDATE SET rate_to_base = EXCLUDED.rate_to_base, updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		rate.Code().Code(), rate.RateToBase().Decimal(), rate.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	rate.AssignID(id)
	return nil
}

func (r *CurrencyRateRepository) List(ctx context.Context) ([]*entities.CurrencyRate, error) {
	db := dbFrom(ctx, r.pool)
	rows, err := db.Query(ctx, `SELECT id, code, rate_to_base, updated_at FROM currency_rates ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	defer rows.Close()

	var rates []*entities.CurrencyRate
	for rows.Next() {
		rate, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrStorage, err)
	}
	return rates, nil
}
