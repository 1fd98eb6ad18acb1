package app

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/events"
)

// Quoter prices a shipment without side effects.
type Quoter interface {
	Quote(weight float64, service domain.ServiceClass) (decimal.Decimal, error)
}

// PurchaseLedger is the slice of the ledger the coordinator needs.
type PurchaseLedger interface {
	TryDebit(ctx context.Context, userID string, amount decimal.Decimal) (domain.Transaction, error)
	ReverseDebit(ctx context.Context, transactionID string) error
}

// PurchaseLabels is the slice of the label store the coordinator needs.
type PurchaseLabels interface {
	CreateLabel(ctx context.Context, in CreateLabelInput) (domain.ShippingLabel, error)
}

// PurchaseService turns quote, debit and label creation into one
// all-or-nothing purchase. Debit and label creation commit separately, so a
// failed label write is undone with a compensating re-credit instead of a
// shared storage transaction.
type PurchaseService struct {
	quoter    Quoter
	ledger    PurchaseLedger
	labels    PurchaseLabels
	publisher events.Publisher
	logger    *log.Logger
}

type PurchaseServiceOption func(*PurchaseService)

// WithPurchasePublisher emits purchase events to the given publisher.
func WithPurchasePublisher(p events.Publisher) PurchaseServiceOption {
	return func(s *PurchaseService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithPurchaseLogger overrides the default logger.
func WithPurchaseLogger(l *log.Logger) PurchaseServiceOption {
	return func(s *PurchaseService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewPurchaseService(quoter Quoter, ledger PurchaseLedger, labels PurchaseLabels, opts ...PurchaseServiceOption) *PurchaseService {
	svc := &PurchaseService{
		quoter:    quoter,
		ledger:    ledger,
		labels:    labels,
		publisher: events.Noop{},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type PurchaseLabelInput struct {
	UserID  string
	From    domain.Address
	To      domain.Address
	Weight  float64
	Service domain.ServiceClass
}

// PurchaseLabel quotes the shipment, debits the user and mints the label.
// Either a completed deduction and its label both exist afterwards, or
// neither does: a failed label write reverses the debit before the error is
// reported. When even the reversal fails the operation surfaces
// ErrLedgerInconsistency and leaves reconciliation to an operator.
func (s *PurchaseService) PurchaseLabel(ctx context.Context, in PurchaseLabelInput) (domain.ShippingLabel, error) {
	if in.UserID == "" {
		return domain.ShippingLabel{}, domain.ErrInvalidID
	}
	if err := in.From.Validate(); err != nil {
		return domain.ShippingLabel{}, err
	}
	if err := in.To.Validate(); err != nil {
		return domain.ShippingLabel{}, err
	}

	cost, err := s.quoter.Quote(in.Weight, in.Service)
	if err != nil {
		return domain.ShippingLabel{}, err
	}

	tx, err := s.ledger.TryDebit(ctx, in.UserID, cost)
	if err != nil {
		return domain.ShippingLabel{}, err
	}

	label, err := s.labels.CreateLabel(ctx, CreateLabelInput{
		UserID:  in.UserID,
		From:    in.From,
		To:      in.To,
		Weight:  in.Weight,
		Service: in.Service,
		Cost:    cost,
	})
	if err != nil {
		if rerr := s.ledger.ReverseDebit(ctx, tx.ID); rerr != nil {
			s.logger.Printf(
				"FATAL-OPERATION: ledger inconsistency user=%s transaction=%s amount=%s: label write failed (%v) and reversal failed (%v)",
				in.UserID, tx.ID, tx.Amount, err, rerr,
			)
			return domain.ShippingLabel{}, fmt.Errorf("%w: transaction %s", domain.ErrLedgerInconsistency, tx.ID)
		}
		return domain.ShippingLabel{}, err
	}

	if perr := s.publisher.Publish(ctx, events.TopicLabelPurchased, events.LabelPurchased{
		LabelID:        label.ID,
		UserID:         label.UserID,
		TransactionID:  tx.ID,
		TrackingNumber: label.TrackingNumber,
		Cost:           label.Cost,
		OccurredAt:     label.CreatedAt,
	}); perr != nil {
		s.logger.Printf("WARN: publish purchase event label=%s: %v", label.ID, perr)
	}

	return label, nil
}
