// Package ledger is the single source of truth for accounts and
// transactions within the process. All balance changes flow through it:
// it recalculates balances synchronously, persists state best-effort
// through the kv boundary, evaluates alert thresholds and publishes full
// snapshots to subscribers after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/clarobank/bankcore/pkg/alert"
	"github.com/clarobank/bankcore/pkg/domain"
	"github.com/clarobank/bankcore/pkg/eventbus"
	"github.com/clarobank/bankcore/pkg/kv"
)

// Store holds the in-process account and transaction state. It is safe for
// concurrent use; collections are replaced immutably on every mutation and
// callers only ever see snapshots.
type Store struct {
	// writeMu serializes each mutation together with its persist and
	// publish steps, so the kv backend and the bus always observe
	// snapshots in commit order. mu alone cannot guarantee that: it is
	// released before the (potentially slow) persist IO so reads stay
	// concurrent, and two racing mutations could otherwise persist and
	// publish out of order.
	writeMu sync.Mutex

	mu           sync.RWMutex
	accounts     []domain.Account
	transactions []domain.Transaction

	kv     kv.Store
	bus    *eventbus.Bus
	alerts *alert.Evaluator
	logger *slog.Logger
}

// New builds a store with its dependencies injected, loads persisted state
// from the kv backend and falls back to the seed dataset when nothing
// usable is stored. The initial snapshots are published so subscribers
// registered right after construction see current state immediately.
func New(ctx context.Context, kvs kv.Store, bus *eventbus.Bus, alerts *alert.Evaluator, logger *slog.Logger) *Store {
	s := &Store{
		kv:     kvs,
		bus:    bus,
		alerts: alerts,
		logger: logger.With("component", "ledger"),
	}
	s.load(ctx)
	s.publishAccounts(s.accounts)
	s.publishTransactions(s.transactions)
	return s
}

func (s *Store) load(ctx context.Context) {
	s.accounts = domain.SeedAccounts()
	s.transactions = domain.SeedTransactions()

	if data, err := s.kv.Get(ctx, kv.KeyAccounts); err == nil {
		var accounts []domain.Account
		if err := json.Unmarshal(data, &accounts); err != nil {
			s.logger.Warn("persisted accounts unreadable, using seed data", "error", err)
		} else {
			s.accounts = accounts
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		s.logger.Warn("loading accounts failed, using seed data", "error", err)
	}

	if data, err := s.kv.Get(ctx, kv.KeyTransactions); err == nil {
		var txs []domain.Transaction
		if err := json.Unmarshal(data, &txs); err != nil {
			s.logger.Warn("persisted transactions unreadable, using seed data", "error", err)
		} else {
			s.transactions = txs
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		s.logger.Warn("loading transactions failed, using seed data", "error", err)
	}

	s.logger.Info("ledger loaded", "accounts", len(s.accounts), "transactions", len(s.transactions))
}

// Accounts returns a snapshot of all accounts. No side effects.
func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAccounts(s.accounts)
}

// Account returns the account with the given number.
func (s *Store) Account(number string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Number == number {
			return a.Clone(), nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

// Transactions returns a snapshot of the transaction log, most-recent-first.
func (s *Store) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Deposit increases the account balance by amount and records a "Deposit"
// transaction. The amount must be positive.
func (s *Store) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := s.logger.With("operation", "deposit", "account", accountNumber, "amount", amount)
	if !amount.IsPositive() {
		return domain.ErrAmountNotPositive
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(accountNumber)
	if idx < 0 {
		s.mu.Unlock()
		logger.Warn("deposit rejected", "error", domain.ErrAccountNotFound)
		return domain.ErrAccountNotFound
	}

	accounts := cloneAccounts(s.accounts)
	accounts[idx].Balance = accounts[idx].Balance.Add(amount)
	tx := domain.NewTransaction(accountNumber, domain.DescDeposit, accounts[idx].Currency, amount)
	transactions := prepend(tx, s.transactions)

	s.accounts = accounts
	s.transactions = transactions
	updated := accounts[idx].Clone()
	s.mu.Unlock()

	s.persist(ctx, accounts, transactions)
	s.publishAccounts(accounts)
	s.publishTransactions(transactions)
	s.alerts.Evaluate(updated, updated.Balance, tx.Amount)

	logger.Info("deposit applied", "balance", updated.Balance)
	return nil
}

// Withdraw decreases the account balance by amount and records a
// "Withdrawal" transaction with the amount negated. It fails without any
// state change when the account is missing or the balance is insufficient.
func (s *Store) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := s.logger.With("operation", "withdraw", "account", accountNumber, "amount", amount)
	if !amount.IsPositive() {
		return domain.ErrAmountNotPositive
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(accountNumber)
	if idx < 0 {
		s.mu.Unlock()
		logger.Warn("withdrawal rejected", "error", domain.ErrAccountNotFound)
		return domain.ErrAccountNotFound
	}
	if s.accounts[idx].Balance.LessThan(amount) {
		s.mu.Unlock()
		logger.Warn("withdrawal rejected", "error", domain.ErrInsufficientFunds)
		return domain.ErrInsufficientFunds
	}

	accounts := cloneAccounts(s.accounts)
	accounts[idx].Balance = accounts[idx].Balance.Sub(amount)
	tx := domain.NewTransaction(accountNumber, domain.DescWithdrawal, accounts[idx].Currency, amount.Neg())
	transactions := prepend(tx, s.transactions)

	s.accounts = accounts
	s.transactions = transactions
	updated := accounts[idx].Clone()
	s.mu.Unlock()

	s.persist(ctx, accounts, transactions)
	s.publishAccounts(accounts)
	s.publishTransactions(transactions)
	s.alerts.Evaluate(updated, updated.Balance, tx.Amount)

	logger.Info("withdrawal applied", "balance", updated.Balance)
	return nil
}

// Transfer debits debitAmount from the source account and credits
// creditAmount to the destination, both recorded under label. The amounts
// may differ for currency-converted transfers. Every precondition —
// including destination existence — is checked before any mutation, so a
// failed transfer leaves both accounts untouched.
func (s *Store) Transfer(ctx context.Context, fromNumber, toNumber string, debitAmount, creditAmount decimal.Decimal, label string) error {
	logger := s.logger.With(
		"operation", "transfer",
		"from", fromNumber,
		"to", toNumber,
		"debit", debitAmount,
		"credit", creditAmount,
		"label", label,
	)
	if !debitAmount.IsPositive() || !creditAmount.IsPositive() {
		return domain.ErrAmountNotPositive
	}
	if fromNumber == toNumber {
		return domain.ErrSameAccountTransfer
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	fromIdx := s.indexOf(fromNumber)
	toIdx := s.indexOf(toNumber)
	if fromIdx < 0 || toIdx < 0 {
		s.mu.Unlock()
		logger.Warn("transfer rejected", "error", domain.ErrAccountNotFound)
		return domain.ErrAccountNotFound
	}
	if s.accounts[fromIdx].Balance.LessThan(debitAmount) {
		s.mu.Unlock()
		logger.Warn("transfer rejected", "error", domain.ErrInsufficientFunds)
		return domain.ErrInsufficientFunds
	}

	accounts := cloneAccounts(s.accounts)
	accounts[fromIdx].Balance = accounts[fromIdx].Balance.Sub(debitAmount)
	accounts[toIdx].Balance = accounts[toIdx].Balance.Add(creditAmount)

	debitTx := domain.NewTransaction(fromNumber, label, accounts[fromIdx].Currency, debitAmount.Neg())
	creditTx := domain.NewTransaction(toNumber, label, accounts[toIdx].Currency, creditAmount)
	transactions := prepend(creditTx, prepend(debitTx, s.transactions))

	s.accounts = accounts
	s.transactions = transactions
	from := accounts[fromIdx].Clone()
	to := accounts[toIdx].Clone()
	s.mu.Unlock()

	s.persist(ctx, accounts, transactions)
	s.publishAccounts(accounts)
	s.publishTransactions(transactions)
	s.alerts.Evaluate(from, from.Balance, debitTx.Amount)
	s.alerts.Evaluate(to, to.Balance, creditTx.Amount)

	logger.Info("transfer applied", "from_balance", from.Balance, "to_balance", to.Balance)
	return nil
}

// UpdateAccount replaces an account record matched by number. The balance
// is deliberately carried over from the stored record: balances change
// only through deposit, withdraw and transfer. Used for nickname edits and
// alert-threshold changes.
func (s *Store) UpdateAccount(ctx context.Context, updated domain.Account) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(updated.Number)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrAccountNotFound
	}

	accounts := cloneAccounts(s.accounts)
	replacement := updated.Clone()
	replacement.Balance = accounts[idx].Balance
	accounts[idx] = replacement

	s.accounts = accounts
	s.mu.Unlock()

	s.persist(ctx, accounts, nil)
	s.publishAccounts(accounts)

	s.logger.Info("account updated", "account", updated.Number)
	return nil
}

// SetLowBalanceAlert enables the low-balance alert with the given
// threshold on the named account, leaving other alert config untouched.
func (s *Store) SetLowBalanceAlert(ctx context.Context, accountNumber string, threshold decimal.Decimal) error {
	return s.setAlert(ctx, accountNumber, func(cfg *domain.AlertConfig) {
		cfg.LowBalance = &domain.ThresholdAlert{Enabled: true, Threshold: threshold}
	})
}

// SetLargeTransactionAlert enables the large-transaction alert with the
// given threshold on the named account, leaving other alert config
// untouched.
func (s *Store) SetLargeTransactionAlert(ctx context.Context, accountNumber string, threshold decimal.Decimal) error {
	return s.setAlert(ctx, accountNumber, func(cfg *domain.AlertConfig) {
		cfg.LargeTransaction = &domain.ThresholdAlert{Enabled: true, Threshold: threshold}
	})
}

func (s *Store) setAlert(ctx context.Context, accountNumber string, apply func(*domain.AlertConfig)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(accountNumber)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrAccountNotFound
	}

	accounts := cloneAccounts(s.accounts)
	if accounts[idx].Alerts == nil {
		accounts[idx].Alerts = &domain.AlertConfig{}
	}
	apply(accounts[idx].Alerts)

	s.accounts = accounts
	s.mu.Unlock()

	s.persist(ctx, accounts, nil)
	s.publishAccounts(accounts)
	return nil
}

// indexOf must be called with the mutex held.
func (s *Store) indexOf(number string) int {
	for i, a := range s.accounts {
		if a.Number == number {
			return i
		}
	}
	return -1
}

// persist writes the given state through the kv boundary. Failures are
// logged and swallowed: state is not lost for the running process, it just
// will not survive a restart.
func (s *Store) persist(ctx context.Context, accounts []domain.Account, transactions []domain.Transaction) {
	if accounts != nil {
		if data, err := json.Marshal(accounts); err != nil {
			s.logger.Error("marshal accounts failed", "error", err)
		} else if err := s.kv.Set(ctx, kv.KeyAccounts, data); err != nil {
			s.logger.Warn("persisting accounts failed, continuing in memory", "error", err)
		}
	}
	if transactions != nil {
		if data, err := json.Marshal(transactions); err != nil {
			s.logger.Error("marshal transactions failed", "error", err)
		} else if err := s.kv.Set(ctx, kv.KeyTransactions, data); err != nil {
			s.logger.Warn("persisting transactions failed, continuing in memory", "error", err)
		}
	}
}

func (s *Store) publishAccounts(accounts []domain.Account) {
	s.bus.Publish(AccountsUpdated{Accounts: cloneAccounts(accounts)})
}

func (s *Store) publishTransactions(transactions []domain.Transaction) {
	out := make([]domain.Transaction, len(transactions))
	copy(out, transactions)
	s.bus.Publish(TransactionsUpdated{Transactions: out})
}

func cloneAccounts(accounts []domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts))
	for i, a := range accounts {
		out[i] = a.Clone()
	}
	return out
}

func prepend(tx domain.Transaction, txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs)+1)
	out = append(out, tx)
	return append(out, txs...)
}
