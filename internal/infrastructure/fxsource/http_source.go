// Package fxsource implements ports.FXSource against an external JSON rate
// feed over HTTP — the one suspension point spec §4.8's refresher reaches
// outside the process for.
package fxsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wallethub/core/internal/application/ports"
)

// Compile-time check
var _ ports.FXSource = (*HTTPSource)(nil)

// HTTPSource fetches {"rates": {"USD": "93.5", ...}} style feeds, each value
// "1 unit of code = rate units of base (RUB)".
type HTTPSource struct {
	httpClient *http.Client
	url        string
}

// NewHTTPSource returns an HTTPSource reading from the given feed URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{httpClient: &http.Client{Timeout: 10 * time.Second}, url: url}
}

type ratesResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

func (s *HTTPSource) FetchRates(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fx source request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fx source request: unexpected status %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("fx source decode: %w", err)
	}

	rates := make(map[string]string, len(parsed.Rates))
	for code, rate := range parsed.Rates {
		rates[code] = rate.String()
	}
	return rates, nil
}
