package webapi

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/clarobank/bankcore/pkg/domain"
	"github.com/clarobank/bankcore/pkg/exchange"
	"github.com/clarobank/bankcore/pkg/ledger"
)

// AccountRoutes registers the ledger-facing endpoints.
//
//   - GET  /accounts                                  : list all accounts.
//   - GET  /transactions                              : transaction log, most-recent-first.
//   - POST /accounts/:number/deposit                  : deposit funds.
//   - POST /accounts/:number/withdraw                 : withdraw funds.
//   - POST /transfer                                  : move funds between accounts.
//   - PUT  /accounts/:number                          : edit nickname.
//   - PUT  /accounts/:number/alerts/low-balance       : enable the low-balance alert.
//   - PUT  /accounts/:number/alerts/large-transaction : enable the large-transaction alert.
func AccountRoutes(app *fiber.App, store *ledger.Store, rates *exchange.Service, logger *slog.Logger) {
	app.Get("/accounts", ListAccounts(store))
	app.Get("/transactions", ListTransactions(store))
	app.Post("/accounts/:number/deposit", Deposit(store, logger))
	app.Post("/accounts/:number/withdraw", Withdraw(store, logger))
	app.Post("/transfer", Transfer(store, rates, logger))
	app.Put("/accounts/:number", UpdateAccount(store, logger))
	app.Put("/accounts/:number/alerts/low-balance", SetAlert(store, logger, ledgerSetLowBalance))
	app.Put("/accounts/:number/alerts/large-transaction", SetAlert(store, logger, ledgerSetLargeTransaction))
}

// ListAccounts returns the current account snapshot.
func ListAccounts(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusOK, "Accounts", store.Accounts())
	}
}

// ListTransactions returns the transaction log, most-recent-first.
func ListTransactions(store *ledger.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions", store.Transactions())
	}
}

// Deposit handles depositing funds into the account in the path.
func Deposit(store *ledger.Store, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[DepositRequest](c)
		if input == nil {
			return err
		}
		number := c.Params("number")
		if err := store.Deposit(c.Context(), number, decimal.NewFromFloat(input.Amount)); err != nil {
			logger.Error("deposit failed", "account", number, "error", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Deposit failed", err.Error())
		}
		acc, err := store.Account(number)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Deposit failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful", acc)
	}
}

// Withdraw handles withdrawing funds from the account in the path.
func Withdraw(store *ledger.Store, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err
		}
		number := c.Params("number")
		if err := store.Withdraw(c.Context(), number, decimal.NewFromFloat(input.Amount)); err != nil {
			logger.Error("withdrawal failed", "account", number, "error", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Withdrawal failed", err.Error())
		}
		acc, err := store.Account(number)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Withdrawal failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful", acc)
	}
}

// Transfer debits the source account and credits the destination. When the
// accounts use different currencies the credited amount is converted at
// the current exchange rate; the debit always happens in the source
// currency.
func Transfer(store *ledger.Store, rates *exchange.Service, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}

		from, err := store.Account(input.FromAccount)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Transfer failed", "source account not found")
		}
		to, err := store.Account(input.ToAccount)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Transfer failed", "destination account not found")
		}

		label := input.Label
		if label == "" {
			label = domain.LabelWithinBankTransfer
		}

		debit := decimal.NewFromFloat(input.Amount)
		credit := rates.Convert(c.Context(), debit, from.Currency, to.Currency)

		if err := store.Transfer(c.Context(), from.Number, to.Number, debit, credit, label); err != nil {
			logger.Error("transfer failed",
				"from", from.Number, "to", to.Number, "error", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Transfer failed", err.Error())
		}

		return SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful", TransferResponse{
			FromAccount:    from.Number,
			ToAccount:      to.Number,
			DebitedAmount:  debit.InexactFloat64(),
			DebitCurrency:  from.Currency,
			CreditedAmount: credit.InexactFloat64(),
			CreditCurrency: to.Currency,
			Label:          label,
		})
	}
}

// UpdateAccount edits account metadata such as the nickname. The balance
// is never touched by this endpoint.
func UpdateAccount(store *ledger.Store, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err
		}
		number := c.Params("number")

		acc, err := store.Account(number)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Account update failed", err.Error())
		}
		acc.Nickname = input.Nickname

		if err := store.UpdateAccount(c.Context(), acc); err != nil {
			logger.Error("account update failed", "account", number, "error", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Account update failed", err.Error())
		}
		updated, err := store.Account(number)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Account update failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account updated", updated)
	}
}

type setAlertFunc func(*ledger.Store, *fiber.Ctx, string, decimal.Decimal) error

func ledgerSetLowBalance(store *ledger.Store, c *fiber.Ctx, number string, threshold decimal.Decimal) error {
	return store.SetLowBalanceAlert(c.Context(), number, threshold)
}

func ledgerSetLargeTransaction(store *ledger.Store, c *fiber.Ctx, number string, threshold decimal.Decimal) error {
	return store.SetLargeTransactionAlert(c.Context(), number, threshold)
}

// SetAlert enables an alert threshold on the account in the path, leaving
// the account's other alert config untouched.
func SetAlert(store *ledger.Store, logger *slog.Logger, set setAlertFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[AlertRequest](c)
		if input == nil {
			return err
		}
		number := c.Params("number")

		if err := set(store, c, number, decimal.NewFromFloat(input.Threshold)); err != nil {
			logger.Error("setting alert failed", "account", number, "error", err)
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Setting alert failed", err.Error())
		}
		acc, err := store.Account(number)
		if err != nil {
			return ErrorResponseJSON(c, ErrorToStatusCode(err), "Setting alert failed", err.Error())
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Alert configured", acc)
	}
}
