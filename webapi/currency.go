package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/clarobank/bankcore/pkg/exchange"
)

// CurrencyRoutes registers the exchange-rate endpoints.
//
//   - GET /currencies              : supported currency codes.
//   - GET /rates                   : the full current snapshot.
//   - GET /rates/pair?from=&to=    : one conversion factor.
//   - GET /convert?amount=&from=&to= : convert an amount.
func CurrencyRoutes(app *fiber.App, rates *exchange.Service) {
	app.Get("/currencies", ListCurrencies(rates))
	app.Get("/rates", ListRates(rates))
	app.Get("/rates/pair", GetRate(rates))
	app.Get("/convert", Convert(rates))
}

// ListCurrencies returns the fixed supported currency set.
func ListCurrencies(rates *exchange.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusOK, "Supported currencies", rates.Supported())
	}
}

// ListRates returns the current rate snapshot relative to the base
// currency.
func ListRates(rates *exchange.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusOK, "Exchange rates", rates.Rates(c.Context()))
	}
}

// GetRate returns the conversion factor for a currency pair.
func GetRate(rates *exchange.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request", "from and to query parameters are required")
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Exchange rate", RateResponse{
			From: from,
			To:   to,
			Rate: rates.GetRate(c.Context(), from, to),
		})
	}
}

// Convert converts an amount between two currencies.
func Convert(rates *exchange.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request", "from and to query parameters are required")
		}
		amount, err := decimal.NewFromString(c.Query("amount"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request", "amount must be a decimal number")
		}

		converted := rates.Convert(c.Context(), amount, from, to)
		return SuccessResponseJSON(c, fiber.StatusOK, "Converted amount", ConvertResponse{
			From:      from,
			To:        to,
			Amount:    amount.InexactFloat64(),
			Converted: converted.String(),
		})
	}
}
