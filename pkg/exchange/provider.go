package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider fetches currency rates relative to a base currency from an
// external source.
type Provider interface {
	FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error)
}

// ratesResponse is the rate provider's wire format.
type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
	Base  string             `json:"base"`
	Date  string             `json:"date"`
}

// HTTPProvider calls an open-exchange-rates style endpoint:
// GET {base_url}?app_id={key}&base=USD&symbols=EUR,EGP,...
type HTTPProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPProvider creates a provider with an explicit request timeout.
// Timeouts surface as fetch failures, which callers resolve through the
// stale-cache-then-identity fallback.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *HTTPProvider {
	return &HTTPProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "exchange_provider"),
	}
}

// FetchRates requests rates for the given symbols. Any transport error,
// non-200 status or malformed body is a fetch failure.
func (p *HTTPProvider) FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
	q := url.Values{}
	q.Set("app_id", p.apiKey)
	q.Set("base", base)
	q.Set("symbols", strings.Join(symbols, ","))
	reqURL := p.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates response: %w", err)
	}
	if body.Rates == nil {
		return nil, fmt.Errorf("rate provider returned no rates")
	}

	p.logger.Debug("rates fetched", "base", base, "count", len(body.Rates), "date", body.Date)
	return body.Rates, nil
}
