// Package scheduler runs background periodic tasks with the same
// Start(ctx)/Stop() lifecycle shape the container uses for its other
// long-running components.
package scheduler

import (
	"context"
	"time"

	"github.com/wallethub/core/internal/application/ports"
	"github.com/wallethub/core/internal/domain/entities"
	"github.com/wallethub/core/internal/domain/valueobjects"
	"github.com/wallethub/core/internal/pkg/logger"
)

// FXRefresher is the hourly currency-rate refresher described in spec §4.8:
// fetch the external feed, upsert every recognized code, skip unknown codes
// silently, retry a failed fetch up to 3 times with a 10s back-off, then
// log and wait for the next tick.
type FXRefresher struct {
	source   ports.FXSource
	rates    ports.CurrencyRateRepository
	interval time.Duration
	maxRetry int
	backoff  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewFXRefresher returns an FXRefresher with default settings: hourly tick,
// 3 retries, 10s back-off.
func NewFXRefresher(source ports.FXSource, rates ports.CurrencyRateRepository) *FXRefresher {
	return &FXRefresher{
		source:   source,
		rates:    rates,
		interval: time.Hour,
		maxRetry: 3,
		backoff:  10 * time.Second,
	}
}

// Start runs the refresh loop in a background goroutine until Stop is
// called or ctx is cancelled. It refreshes once immediately, then on every
// tick of the interval.
func (f *FXRefresher) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})

	go func() {
		defer close(f.done)
		f.refreshWithRetry(runCtx)

		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				f.refreshWithRetry(runCtx)
			}
		}
	}()
}

// Stop cancels the loop and blocks until it has exited.
func (f *FXRefresher) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	<-f.done
}

func (f *FXRefresher) refreshWithRetry(ctx context.Context) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= f.maxRetry; attempt++ {
		if err := f.refreshOnce(ctx); err != nil {
			lastErr = err
			log.Warn("fx refresh attempt failed", "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.backoff):
			}
			continue
		}
		return
	}
	log.Error("fx refresh exhausted retries", "retries", f.maxRetry, "error", lastErr)
}

func (f *FXRefresher) refreshOnce(ctx context.Context) error {
	advertised, err := f.source.FetchRates(ctx)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	for code, rateStr := range advertised {
		currency, err := valueobjects.NewCurrency(code)
		if err != nil {
			continue // unknown code, skipped silently per §4.8
		}
		rate, err := valueobjects.NewRate(rateStr)
		if err != nil {
			log.Warn("fx refresh: unparsable rate, skipping", "code", code, "rate", rateStr)
			continue
		}
		if currency.IsBase() {
			rate = valueobjects.BaseRate()
		}
		if err := f.rates.Upsert(ctx, entities.NewCurrencyRate(currency, rate)); err != nil {
			log.Error("fx refresh: upsert failed", "code", code, "error", err)
		}
	}
	return nil
}
