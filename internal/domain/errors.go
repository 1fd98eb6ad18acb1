package domain

import "errors"

var (
	ErrInvalidWeight       = errors.New("weight must be greater than zero")
	ErrUnknownService      = errors.New("unknown service class")
	ErrInvalidAddress      = errors.New("address is incomplete")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrUnknownCurrency     = errors.New("unknown currency")
	ErrEmailRequired       = errors.New("email required")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrUserNotFound        = errors.New("user not found")
	ErrLabelNotFound       = errors.New("label not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransition   = errors.New("invalid label status transition")
	ErrAlreadyReversed     = errors.New("transaction already reversed")
	ErrTrackingClash       = errors.New("tracking number already allocated")
	ErrPDFURLRequired      = errors.New("pdf url required")
	ErrInvalidID           = errors.New("invalid id")

	// ErrLedgerInconsistency means a completed debit could not be compensated
	// after a failed label write. The ledger and label stores disagree until
	// an operator reconciles them; never retried automatically.
	ErrLedgerInconsistency = errors.New("ledger inconsistency: manual reconciliation required")
)
