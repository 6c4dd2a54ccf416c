// Package kv is the small key-value persistence boundary the ledger and
// exchange cache write their JSON state through. Backends are best-effort:
// callers log failures and keep going in memory.
package kv

import (
	"context"
	"errors"
)

// Keys the application persists its state under.
const (
	KeyAccounts     = "banking_accounts"
	KeyTransactions = "banking_transactions"
	KeyRates        = "cached_exchange_rates"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value store for serialized JSON blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
