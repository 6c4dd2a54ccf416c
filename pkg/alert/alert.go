// Package alert decides, after every balance-changing operation, whether a
// low-balance or large-transaction notification should be surfaced. It only
// makes the decision and publishes it; presenting the notification to a
// user is the consumer's concern.
package alert

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/clarobank/bankcore/pkg/domain"
	"github.com/clarobank/bankcore/pkg/eventbus"
)

// Bus topics alert notifications are published on.
const (
	TopicLowBalance       = "alert.low_balance"
	TopicLargeTransaction = "alert.large_transaction"
)

// Kind discriminates the two notification types.
type Kind string

const (
	KindLowBalance       Kind = "low_balance"
	KindLargeTransaction Kind = "large_transaction"
)

// Notification is one fired alert.
type Notification struct {
	Kind          Kind
	AccountNumber string
	Threshold     decimal.Decimal
	// Balance is the post-operation balance (low-balance alerts).
	Balance decimal.Decimal
	// Amount is the observed transaction amount (large-transaction alerts).
	Amount decimal.Decimal
}

// Topic implements eventbus.Event.
func (n Notification) Topic() string {
	if n.Kind == KindLowBalance {
		return TopicLowBalance
	}
	return TopicLargeTransaction
}

// Evaluator checks ledger mutations against per-account alert thresholds.
type Evaluator struct {
	bus    *eventbus.Bus
	logger *slog.Logger
}

// NewEvaluator creates an evaluator publishing on the given bus.
func NewEvaluator(bus *eventbus.Bus, logger *slog.Logger) *Evaluator {
	return &Evaluator{bus: bus, logger: logger}
}

// Evaluate inspects one mutation result. Both checks are independent and
// may both fire for the same operation; an account without alert config is
// a no-op. Fired notifications are published on the bus and returned.
func (e *Evaluator) Evaluate(account domain.Account, newBalance, txAmount decimal.Decimal) []Notification {
	cfg := account.Alerts
	if cfg == nil {
		return nil
	}

	var fired []Notification

	if lb := cfg.LowBalance; lb != nil && lb.Enabled && newBalance.LessThan(lb.Threshold) {
		fired = append(fired, Notification{
			Kind:          KindLowBalance,
			AccountNumber: account.Number,
			Threshold:     lb.Threshold,
			Balance:       newBalance,
		})
	}

	if lt := cfg.LargeTransaction; lt != nil && lt.Enabled && txAmount.Abs().GreaterThan(lt.Threshold) {
		fired = append(fired, Notification{
			Kind:          KindLargeTransaction,
			AccountNumber: account.Number,
			Threshold:     lt.Threshold,
			Amount:        txAmount,
		})
	}

	for _, n := range fired {
		e.logger.Info("alert fired",
			"kind", n.Kind,
			"account", n.AccountNumber,
			"threshold", n.Threshold,
		)
		e.bus.Publish(n)
	}
	return fired
}
