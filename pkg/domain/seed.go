package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clarobank/bankcore/pkg/currency"
)

// SeedAccounts returns the demo dataset the store starts from when no
// persisted state exists: twenty accounts, odd positions checking/active,
// even positions savings/inactive.
func SeedAccounts() []Account {
	accounts := make([]Account, 0, 20)
	for i := 1; i <= 20; i++ {
		acc := Account{
			Number:   fmt.Sprintf("10000000%02d", i),
			Type:     TypeChecking,
			Status:   StatusActive,
			Balance:  decimal.New(int64(1000+100*i)*100+75, -2),
			Currency: currency.Default,
		}
		if i%2 == 0 {
			acc.Type = TypeSavings
			acc.Status = StatusInactive
			acc.Balance = decimal.New(int64(1000+100*i)*100+50, -2)
		}
		accounts = append(accounts, acc)
	}
	return accounts
}

// SeedTransactions returns the demo transaction log matching SeedAccounts.
func SeedTransactions() []Transaction {
	entries := []struct {
		date        string
		description string
		amount      string
		account     string
	}{
		{"2025-07-02", "ATM Withdrawal", "-120.00", "1000000001"},
		{"2025-07-03", "POS Purchase", "-45.23", "1000000002"},
		{"2025-07-04", "Salary", "3500.00", "1000000003"},
		{"2025-07-05", "Online Transfer", "-250.00", "1000000004"},
		{"2025-07-06", "Bill Payment", "-150.00", "1000000005"},
		{"2025-07-07", "ATM Withdrawal", "-120.00", "1000000006"},
	}

	txs := make([]Transaction, 0, len(entries))
	for _, e := range entries {
		date, _ := time.Parse("2006-01-02", e.date)
		txs = append(txs, Transaction{
			ID:            uuid.New(),
			Date:          date,
			Description:   e.description,
			Amount:        decimal.RequireFromString(e.amount),
			AccountNumber: e.account,
			Currency:      currency.Default,
		})
	}
	return txs
}
