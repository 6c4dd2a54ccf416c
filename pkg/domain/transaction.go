package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction descriptions written by the ledger store itself. Transfers
// carry a caller-supplied label instead.
const (
	DescDeposit    = "Deposit"
	DescWithdrawal = "Withdrawal"
)

// Transfer labels used by the transfer flows. Any label is accepted by the
// store; these are the ones the product screens use.
const (
	LabelDomesticTransfer      = "Domestic Transfer"
	LabelInternationalTransfer = "International Transfer"
	LabelWithinBankTransfer    = "Within Bank Transfer"
	LabelOwnAccountTransfer    = "Own Account Transfer"
)

// Transaction is a single immutable ledger entry. Amount is signed: a
// negative amount is a debit.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	AccountNumber string          `json:"accountNumber"`
	Currency      string          `json:"currency"`
}

// NewTransaction creates a ledger entry stamped with a fresh ID and now.
func NewTransaction(accountNumber, description, currency string, amount decimal.Decimal) Transaction {
	return Transaction{
		ID:            uuid.New(),
		Date:          time.Now().UTC(),
		Description:   description,
		Amount:        amount,
		AccountNumber: accountNumber,
		Currency:      currency,
	}
}
