package webapi

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCurrencies(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := makeRequest(t, app, "GET", "/currencies", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	codes, ok := body.Data.([]any)
	require.True(t, ok, "expected a list of codes, got %T", body.Data)
	assert.ElementsMatch(t, []any{"USD", "EUR", "EGP", "AED", "SAR"}, codes)
}

func TestListRates(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := makeRequest(t, app, "GET", "/rates", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	rates, ok := body.Data.(map[string]any)
	require.True(t, ok, "expected a rate table, got %T", body.Data)
	assert.Equal(t, float64(1), rates["USD"])
	assert.Equal(t, 0.9, rates["EUR"])
	assert.Equal(t, float64(50), rates["EGP"])
}

func TestGetRateVariants(t *testing.T) {
	testCases := []struct {
		desc       string
		target     string
		wantStatus int
		wantRate   float64
	}{
		{
			desc:       "cross rate",
			target:     "/rates/pair?from=USD&to=EGP",
			wantStatus: fiber.StatusOK,
			wantRate:   50,
		},
		{
			desc:       "identity",
			target:     "/rates/pair?from=EUR&to=EUR",
			wantStatus: fiber.StatusOK,
			wantRate:   1,
		},
		{
			desc:       "missing params",
			target:     "/rates/pair?from=USD",
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			app, _ := setupTestApp(t)
			resp := makeRequest(t, app, "GET", tc.target, "")
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantStatus != fiber.StatusOK {
				return
			}
			body := decodeResponse(t, resp)
			data, ok := body.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tc.wantRate, data["rate"])
		})
	}
}

func TestConvertVariants(t *testing.T) {
	testCases := []struct {
		desc          string
		target        string
		wantStatus    int
		wantConverted string
	}{
		{
			desc:          "usd to eur",
			target:        "/convert?amount=100&from=USD&to=EUR",
			wantStatus:    fiber.StatusOK,
			wantConverted: "90",
		},
		{
			desc:          "same currency",
			target:        "/convert?amount=42.5&from=SAR&to=SAR",
			wantStatus:    fiber.StatusOK,
			wantConverted: "42.5",
		},
		{
			desc:       "bad amount",
			target:     "/convert?amount=lots&from=USD&to=EUR",
			wantStatus: fiber.StatusBadRequest,
		},
		{
			desc:       "missing currencies",
			target:     "/convert?amount=100",
			wantStatus: fiber.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			app, _ := setupTestApp(t)
			resp := makeRequest(t, app, "GET", tc.target, "")
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantStatus != fiber.StatusOK {
				return
			}
			body := decodeResponse(t, resp)
			data, ok := body.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tc.wantConverted, data["converted"])
		})
	}
}
