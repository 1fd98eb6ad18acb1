package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSDT Currency = "USDT"
	CurrencyLTC  Currency = "LTC"
	CurrencyETH  Currency = "ETH"
	CurrencyDAI  Currency = "DAI"
)

// Valid reports whether c is one of the accepted deposit currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSDT, CurrencyLTC, CurrencyETH, CurrencyDAI:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type TransactionType string

const (
	TransactionTypeDeposit   TransactionType = "deposit"
	TransactionTypeDeduction TransactionType = "deduction"
)

// Transaction is one entry in a user's append-only ledger history. Entries
// are never edited or deleted; a reversed deduction is marked failed and
// its amount re-credited, nothing is removed.
type Transaction struct {
	ID       string
	UserID   string
	Amount   decimal.Decimal
	Currency Currency
	Status   TransactionStatus
	Type     TransactionType
	Date     time.Time
}
