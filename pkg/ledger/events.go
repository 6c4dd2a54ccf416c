package ledger

import "github.com/clarobank/bankcore/pkg/domain"

// Bus topics the store publishes full state snapshots on. Subscribers get
// the complete list, not a diff; consumers interested in a single account
// filter on their side.
const (
	TopicAccounts     = "ledger.accounts"
	TopicTransactions = "ledger.transactions"
)

// AccountsUpdated carries the full account list after a mutation.
type AccountsUpdated struct {
	Accounts []domain.Account
}

// Topic implements eventbus.Event.
func (AccountsUpdated) Topic() string { return TopicAccounts }

// TransactionsUpdated carries the full transaction log, most-recent-first.
type TransactionsUpdated struct {
	Transactions []domain.Transaction
}

// Topic implements eventbus.Event.
func (TransactionsUpdated) Topic() string { return TopicTransactions }
