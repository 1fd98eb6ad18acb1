package app

import (
	"context"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

type TransactionLister interface {
	ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error)
}

type LabelLister interface {
	ListLabelsByUser(ctx context.Context, userID string) ([]domain.ShippingLabel, error)
}

// HistoryService provides read-only projections for a user's dashboard,
// both newest first. Safe to call concurrently with any write.
type HistoryService struct {
	transactions TransactionLister
	labels       LabelLister
}

func NewHistoryService(transactions TransactionLister, labels LabelLister) *HistoryService {
	return &HistoryService{
		transactions: transactions,
		labels:       labels,
	}
}

func (s *HistoryService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.transactions.ListTransactionsByUser(ctx, userID)
}

func (s *HistoryService) ListLabels(ctx context.Context, userID string) ([]domain.ShippingLabel, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.labels.ListLabelsByUser(ctx, userID)
}
