package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarobank/bankcore/pkg/kv"
)

type providerFunc func(ctx context.Context, base string, symbols []string) (map[string]float64, error)

func (f providerFunc) FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
	return f(ctx, base, symbols)
}

func failingProvider() Provider {
	return providerFunc(func(context.Context, string, []string) (map[string]float64, error) {
		return nil, errors.New("provider down")
	})
}

func fixedProvider(rates map[string]float64) Provider {
	return providerFunc(func(_ context.Context, base string, _ []string) (map[string]float64, error) {
		if base != "USD" {
			return nil, errors.New("unexpected base")
		}
		return rates, nil
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetRateSameCurrencyIsAlwaysOne(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, failingProvider(), kv.NewMemory(), testLogger())
	for _, code := range svc.Supported() {
		assert.Equal(t, 1.0, svc.GetRate(ctx, code, code), code)
	}
}

func TestGetRateDerivesCrossRates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, fixedProvider(map[string]float64{"USD": 1, "EUR": 0.9}), kv.NewMemory(), testLogger())

	assert.InDelta(t, 0.9, svc.GetRate(ctx, "USD", "EUR"), 1e-12)
	assert.InDelta(t, 1/0.9, svc.GetRate(ctx, "EUR", "USD"), 1e-12)
}

func TestGetRateMissingCurrencyFallsBackToIdentity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, fixedProvider(map[string]float64{"USD": 1, "EUR": 0.9}), kv.NewMemory(), testLogger())

	// SAR was not in the snapshot: its rate is treated as 1, no error.
	assert.InDelta(t, 1.0/0.9, svc.GetRate(ctx, "EUR", "SAR"), 1e-12)
}

func TestGetRateServesStaleSnapshotWhenFetchFails(t *testing.T) {
	ctx := context.Background()
	kvs := kv.NewMemory()
	now := time.Now()

	// Capture a snapshot, then move the clock past the TTL with the
	// provider down.
	clock := now
	svc := NewService(ctx, fixedProvider(map[string]float64{"USD": 1, "EUR": 0.8}), kvs, testLogger(),
		WithClock(func() time.Time { return clock }))
	assert.InDelta(t, 0.8, svc.GetRate(ctx, "USD", "EUR"), 1e-12)

	clock = now.Add(25 * time.Hour)
	svc2 := NewService(ctx, failingProvider(), kvs, testLogger(),
		WithClock(func() time.Time { return clock }))
	assert.InDelta(t, 0.8, svc2.GetRate(ctx, "USD", "EUR"), 1e-12, "stale snapshot beats erroring out")
}

func TestGetRateIdentityWhenNoSnapshotAndFetchFails(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, failingProvider(), kv.NewMemory(), testLogger())
	assert.Equal(t, 1.0, svc.GetRate(ctx, "USD", "EUR"))
	assert.Equal(t, 1.0, svc.GetRate(ctx, "EGP", "SAR"))
}

func TestSnapshotExpiryIsCheckedLazily(t *testing.T) {
	ctx := context.Background()
	calls := 0
	provider := providerFunc(func(context.Context, string, []string) (map[string]float64, error) {
		calls++
		return map[string]float64{"USD": 1, "EUR": 0.5 * float64(calls)}, nil
	})

	now := time.Now()
	clock := now
	svc := NewService(ctx, provider, kv.NewMemory(), testLogger(),
		WithClock(func() time.Time { return clock }))

	assert.InDelta(t, 0.5, svc.GetRate(ctx, "USD", "EUR"), 1e-12)
	assert.InDelta(t, 0.5, svc.GetRate(ctx, "USD", "EUR"), 1e-12)
	assert.Equal(t, 1, calls, "fresh snapshot served from cache")

	clock = now.Add(DefaultTTL)
	assert.InDelta(t, 1.0, svc.GetRate(ctx, "USD", "EUR"), 1e-12)
	assert.Equal(t, 2, calls, "expiry detected on next access")
}

func TestSnapshotPersistedAndRestored(t *testing.T) {
	ctx := context.Background()
	kvs := kv.NewMemory()

	svc := NewService(ctx, fixedProvider(map[string]float64{"USD": 1, "EUR": 0.9, "EGP": 49.5}), kvs, testLogger())
	svc.GetRate(ctx, "USD", "EUR")

	data, err := kvs.Get(ctx, kv.KeyRates)
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 49.5, snap.Rates["EGP"])

	// A new service over the same kv store needs no fetch at all.
	svc2 := NewService(ctx, failingProvider(), kvs, testLogger())
	assert.InDelta(t, 0.9, svc2.GetRate(ctx, "USD", "EUR"), 1e-12)
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, fixedProvider(map[string]float64{"USD": 1, "EUR": 0.9, "EGP": 50}), kv.NewMemory(), testLogger())

	t.Run("same currency is passthrough", func(t *testing.T) {
		amount := decimal.RequireFromString("123.456789")
		assert.True(t, svc.Convert(ctx, amount, "USD", "USD").Equal(amount))
	})

	t.Run("cross currency with rounding", func(t *testing.T) {
		got := svc.Convert(ctx, decimal.NewFromInt(100), "EUR", "EGP")
		// (100 / 0.9) * 50 = 5555.555555...
		assert.True(t, got.Equal(decimal.RequireFromString("5555.555556")), got.String())
	})

	t.Run("base to quote", func(t *testing.T) {
		got := svc.Convert(ctx, decimal.NewFromInt(10), "USD", "EUR")
		assert.True(t, got.Equal(decimal.RequireFromString("9")), got.String())
	})
}

func TestSupportedIsDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	svc := NewService(ctx, failingProvider(), kv.NewMemory(), testLogger())
	list := svc.Supported()
	list[0] = "XXX"
	assert.Equal(t, "USD", svc.Supported()[0])
}
