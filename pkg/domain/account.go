// Package domain defines the core banking entities: accounts, transactions
// and per-account alert configuration. Balances are decimal values and are
// only ever changed through the ledger store operations.
package domain

import "github.com/shopspring/decimal"

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusInactive AccountStatus = "Inactive"
)

// AccountType is the product category of an account.
type AccountType string

const (
	TypeChecking AccountType = "Checking"
	TypeSavings  AccountType = "Savings"
)

// ThresholdAlert is a single alert rule with an on/off switch.
type ThresholdAlert struct {
	Enabled   bool            `json:"enabled"`
	Threshold decimal.Decimal `json:"threshold"`
}

// AlertConfig holds the optional per-account alert rules. Either, both or
// neither rule may be set.
type AlertConfig struct {
	LowBalance       *ThresholdAlert `json:"lowBalance,omitempty"`
	LargeTransaction *ThresholdAlert `json:"largeTransaction,omitempty"`
}

// Account is a bank account as held by the ledger store.
//
// Invariants:
//   - Number is unique within a store.
//   - Balance changes only through deposit, withdraw and transfer
//     operations on the store, and never goes negative.
type Account struct {
	Number    string          `json:"number"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Status    AccountStatus   `json:"status"`
	Currency  string          `json:"currency"`
	IBAN      string          `json:"iban,omitempty"`
	SwiftCode string          `json:"swiftCode,omitempty"`
	Nickname  string          `json:"nickname,omitempty"`
	Alerts    *AlertConfig    `json:"alerts,omitempty"`
}

// Clone returns a deep copy of the account, so callers can hand out
// snapshots without exposing the store's own alert config pointers.
func (a Account) Clone() Account {
	out := a
	if a.Alerts != nil {
		alerts := &AlertConfig{}
		if a.Alerts.LowBalance != nil {
			lb := *a.Alerts.LowBalance
			alerts.LowBalance = &lb
		}
		if a.Alerts.LargeTransaction != nil {
			lt := *a.Alerts.LargeTransaction
			alerts.LargeTransaction = &lt
		}
		out.Alerts = alerts
	}
	return out
}
