package domain

import "errors"

var (
	// ErrAccountNotFound is returned when a referenced account number does
	// not exist in the store. No state changes.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a withdrawal or transfer debit
	// exceeds the account balance. No state changes.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountNotPositive is returned when a deposit, withdrawal or
	// transfer amount is zero or negative.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrSameAccountTransfer is returned when a transfer names the same
	// account on both sides.
	ErrSameAccountTransfer = errors.New("cannot transfer to same account")
)
