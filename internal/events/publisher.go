package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicLabelPurchased   = "label_purchased"
	TopicDepositCompleted = "deposit_completed"
)

// Publisher emits domain events for downstream consumers. Publishing is
// best-effort: callers log failures but never fail the operation over them.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// LabelPurchased is emitted after a purchase commits on both stores.
type LabelPurchased struct {
	LabelID        string          `json:"label_id"`
	UserID         string          `json:"user_id"`
	TransactionID  string          `json:"transaction_id"`
	TrackingNumber string          `json:"tracking_number"`
	Cost           decimal.Decimal `json:"cost"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// DepositCompleted is emitted after a credit lands on the ledger.
type DepositCompleted struct {
	TransactionID string          `json:"transaction_id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
