package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account holder with a prepaid balance. The balance is mutated
// only through the ledger's debit/credit operations and never goes negative.
type User struct {
	ID        string
	Email     string
	Balance   decimal.Decimal
	Role      Role
	CreatedAt time.Time
}
