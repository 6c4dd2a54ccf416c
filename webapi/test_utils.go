package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/require"

	"github.com/clarobank/bankcore/pkg/alert"
	"github.com/clarobank/bankcore/pkg/eventbus"
	"github.com/clarobank/bankcore/pkg/exchange"
	"github.com/clarobank/bankcore/pkg/kv"
	"github.com/clarobank/bankcore/pkg/ledger"
)

// NewTestApp creates a Fiber app for testing without rate limiting.
func NewTestApp(store *ledger.Store, rates *exchange.Service, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})
	// No rate limiting for tests
	app.Use(recover.New())

	AccountRoutes(app, store, rates, logger)
	CurrencyRoutes(app, rates)

	return app
}

type providerFunc func(ctx context.Context, base string, symbols []string) (map[string]float64, error)

func (f providerFunc) FetchRates(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
	return f(ctx, base, symbols)
}

// setupTestApp wires a full in-memory stack behind a test app. The
// provider serves a fixed rate table so conversions are deterministic.
func setupTestApp(t *testing.T) (*fiber.App, *ledger.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	provider := providerFunc(func(ctx context.Context, base string, symbols []string) (map[string]float64, error) {
		return map[string]float64{
			"USD": 1,
			"EUR": 0.9,
			"EGP": 50,
			"AED": 3.6725,
			"SAR": 3.75,
		}, nil
	})

	bus := eventbus.New(logger)
	store := ledger.New(ctx, kv.NewMemory(), bus, alert.NewEvaluator(bus, logger), logger)
	rates := exchange.NewService(ctx, provider, kv.NewMemory(), logger)

	return NewTestApp(store, rates, logger), store
}

// makeRequest performs a JSON request against the test app and returns
// the response.
func makeRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

// decodeResponse unmarshals the success envelope.
func decodeResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
