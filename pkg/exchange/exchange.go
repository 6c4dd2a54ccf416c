// Package exchange provides currency conversion factors between the
// supported currencies while minimizing calls to the external rate
// provider. Rates are cached as a single snapshot relative to the base
// currency; cross-rates are derived by division. A snapshot is valid for a
// fixed duration from capture, checked lazily on access rather than by
// timer. Fetch failures never surface to callers: they degrade to the
// stale snapshot if one exists, else to identity rates.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/clarobank/bankcore/pkg/currency"
	"github.com/clarobank/bankcore/pkg/kv"
)

// DefaultTTL is how long a snapshot is served as fresh.
const DefaultTTL = 24 * time.Hour

// convertPrecision is the fractional-digit precision of Convert results.
const convertPrecision = 6

// Snapshot is a point-in-time capture of rates relative to the base
// currency.
type Snapshot struct {
	Rates     map[string]float64 `json:"rates"`
	Timestamp time.Time          `json:"timestamp"`
}

// Expired reports whether the snapshot is older than ttl at the given
// wall-clock time.
func (s Snapshot) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.Timestamp) >= ttl
}

// rate returns the snapshot's rate for a currency, treating a missing or
// non-positive entry as identity.
func (s Snapshot) rate(code string) float64 {
	if r, ok := s.Rates[code]; ok && r > 0 {
		return r
	}
	return 1
}

// Service is the exchange rate cache.
type Service struct {
	provider Provider
	kv       kv.Store
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot

	group singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the snapshot validity duration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the cache and reloads any persisted snapshot — even an
// expired one, which remains useful as the stale fallback.
func NewService(ctx context.Context, provider Provider, kvs kv.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		kv:       kvs,
		logger:   logger.With("component", "exchange"),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if data, err := kvs.Get(ctx, kv.KeyRates); err == nil {
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			s.logger.Warn("persisted rate snapshot unreadable", "error", err)
		} else {
			s.snapshot = &snap
			s.logger.Info("rate snapshot restored", "age", s.now().Sub(snap.Timestamp))
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		s.logger.Warn("loading rate snapshot failed", "error", err)
	}

	return s
}

// Supported returns the supported currency codes as a defensive copy.
func (s *Service) Supported() []string {
	return currency.Supported()
}

// Rates returns the rates of the current snapshot, fetching one if needed.
func (s *Service) Rates(ctx context.Context) map[string]float64 {
	snap := s.current(ctx)
	out := make(map[string]float64, len(snap.Rates))
	for code, rate := range snap.Rates {
		out[code] = rate
	}
	return out
}

// GetRate returns the conversion factor from one currency to another.
// Identical currencies are always 1; otherwise the cross-rate is derived
// from the snapshot by division. This never fails: fetch problems resolve
// to stale or identity rates.
func (s *Service) GetRate(ctx context.Context, from, to string) float64 {
	if from == to {
		return 1
	}
	snap := s.current(ctx)
	return snap.rate(to) / snap.rate(from)
}

// Convert converts an amount between currencies, rounded to six fractional
// digits. Display rounding is the consumer's concern.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	snap := s.current(ctx)
	fromRate := decimal.NewFromFloat(snap.rate(from))
	toRate := decimal.NewFromFloat(snap.rate(to))
	return amount.Div(fromRate).Mul(toRate).Round(convertPrecision)
}

// current returns a usable snapshot, in fallback order: fresh cache,
// freshly fetched, stale cache, identity.
func (s *Service) current(ctx context.Context) Snapshot {
	s.mu.RLock()
	cached := s.snapshot
	s.mu.RUnlock()

	now := s.now()
	if cached != nil && !cached.Expired(now, s.ttl) {
		return *cached
	}

	// Concurrent callers share one fetch.
	fetched, err, _ := s.group.Do("rates", func() (any, error) {
		s.mu.RLock()
		snap := s.snapshot
		s.mu.RUnlock()
		if snap != nil && !snap.Expired(s.now(), s.ttl) {
			return *snap, nil
		}
		return s.refresh(ctx)
	})
	if err == nil {
		return fetched.(Snapshot)
	}

	if cached != nil {
		s.logger.Warn("rate fetch failed, serving stale snapshot",
			"error", err, "age", now.Sub(cached.Timestamp))
		return *cached
	}

	s.logger.Warn("rate fetch failed with no cached snapshot, serving identity rates", "error", err)
	return identitySnapshot(now)
}

// refresh fetches a fresh snapshot, stores it and persists it best-effort.
func (s *Service) refresh(ctx context.Context) (Snapshot, error) {
	symbols := currency.Supported()
	rates, err := s.provider.FetchRates(ctx, currency.Default, symbols)
	if err != nil {
		return Snapshot{}, err
	}

	// Keep only the supported set; anything the provider omitted resolves
	// to identity at read time.
	filtered := make(map[string]float64, len(symbols))
	for _, code := range symbols {
		if r, ok := rates[code]; ok {
			filtered[code] = r
		}
	}

	snap := Snapshot{Rates: filtered, Timestamp: s.now()}
	s.mu.Lock()
	s.snapshot = &snap
	s.mu.Unlock()

	if data, err := json.Marshal(snap); err != nil {
		s.logger.Error("marshal rate snapshot failed", "error", err)
	} else if err := s.kv.Set(ctx, kv.KeyRates, data); err != nil {
		s.logger.Warn("persisting rate snapshot failed", "error", err)
	}

	s.logger.Info("rate snapshot refreshed", "count", len(filtered))
	return snap, nil
}

func identitySnapshot(now time.Time) Snapshot {
	rates := make(map[string]float64)
	for _, code := range currency.Supported() {
		rates[code] = 1
	}
	return Snapshot{Rates: rates, Timestamp: now}
}
