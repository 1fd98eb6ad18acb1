package app

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/clock"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/events"
)

// settlementCurrency labels every deduction; balances are a single prepaid
// amount, so deductions always settle in one currency.
const settlementCurrency = domain.CurrencyUSDT

type LedgerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
	GetUserForUpdate(ctx context.Context, userID string) (domain.User, error)
	UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error
	InsertTransaction(ctx context.Context, tx domain.Transaction) error
	GetTransactionForUpdate(ctx context.Context, transactionID string) (domain.Transaction, error)
	SetTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus) error
}

// LedgerService owns every balance mutation. Each mutation runs inside a
// storage transaction holding the user's row lock, so debits and credits on
// one user are serialized while different users never block each other.
type LedgerService struct {
	repo      LedgerRepository
	clock     clock.Clock
	publisher events.Publisher
	logger    *log.Logger
}

type LedgerServiceOption func(*LedgerService)

// WithLedgerPublisher emits deposit events to the given publisher.
func WithLedgerPublisher(p events.Publisher) LedgerServiceOption {
	return func(s *LedgerService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLedgerLogger overrides the default logger.
func WithLedgerLogger(l *log.Logger) LedgerServiceOption {
	return func(s *LedgerService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewLedgerService(repo LedgerRepository, clk clock.Clock, opts ...LedgerServiceOption) *LedgerService {
	svc := &LedgerService{
		repo:      repo,
		clock:     clk,
		publisher: events.Noop{},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetBalance returns the user's current prepaid balance.
func (s *LedgerService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if userID == "" {
		return decimal.Zero, domain.ErrInvalidID
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

// TryDebit atomically checks the balance, decrements it and appends a
// completed deduction. On insufficient funds nothing is written.
func (s *LedgerService) TryDebit(ctx context.Context, userID string, amount decimal.Decimal) (domain.Transaction, error) {
	if userID == "" {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	if !amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	var result domain.Transaction

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetUserForUpdate(txCtx, userID)
		if err != nil {
			return err
		}
		if user.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		if err := s.repo.UpdateBalance(txCtx, userID, user.Balance.Sub(amount)); err != nil {
			return err
		}

		tx := domain.Transaction{
			ID:       newID(),
			UserID:   userID,
			Amount:   amount,
			Currency: settlementCurrency,
			Status:   domain.TransactionStatusCompleted,
			Type:     domain.TransactionTypeDeduction,
			Date:     s.clock.Now(),
		}
		if err := s.repo.InsertTransaction(txCtx, tx); err != nil {
			return err
		}

		result = tx
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return result, nil
}

// Credit atomically increments the balance and appends a completed deposit.
func (s *LedgerService) Credit(ctx context.Context, userID string, amount decimal.Decimal, currency domain.Currency) (domain.Transaction, error) {
	if userID == "" {
		return domain.Transaction{}, domain.ErrInvalidID
	}
	if !amount.IsPositive() {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}
	if !currency.Valid() {
		return domain.Transaction{}, domain.ErrUnknownCurrency
	}

	var result domain.Transaction

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		user, err := s.repo.GetUserForUpdate(txCtx, userID)
		if err != nil {
			return err
		}

		if err := s.repo.UpdateBalance(txCtx, userID, user.Balance.Add(amount)); err != nil {
			return err
		}

		tx := domain.Transaction{
			ID:       newID(),
			UserID:   userID,
			Amount:   amount,
			Currency: currency,
			Status:   domain.TransactionStatusCompleted,
			Type:     domain.TransactionTypeDeposit,
			Date:     s.clock.Now(),
		}
		if err := s.repo.InsertTransaction(txCtx, tx); err != nil {
			return err
		}

		result = tx
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	if err := s.publisher.Publish(ctx, events.TopicDepositCompleted, events.DepositCompleted{
		TransactionID: result.ID,
		UserID:        result.UserID,
		Amount:        result.Amount,
		Currency:      string(result.Currency),
		OccurredAt:    result.Date,
	}); err != nil {
		s.logger.Printf("WARN: publish deposit event transaction=%s: %v", result.ID, err)
	}

	return result, nil
}

// ReverseDebit re-credits a prior completed deduction and marks it failed.
// Used only as purchase compensation; the transaction record itself is never
// deleted.
func (s *LedgerService) ReverseDebit(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return domain.ErrInvalidID
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		tx, err := s.repo.GetTransactionForUpdate(txCtx, transactionID)
		if err != nil {
			return err
		}
		if tx.Type != domain.TransactionTypeDeduction {
			return domain.ErrTransactionNotFound
		}
		switch tx.Status {
		case domain.TransactionStatusCompleted:
		case domain.TransactionStatusFailed:
			return domain.ErrAlreadyReversed
		default:
			return domain.ErrTransactionNotFound
		}

		user, err := s.repo.GetUserForUpdate(txCtx, tx.UserID)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateBalance(txCtx, tx.UserID, user.Balance.Add(tx.Amount)); err != nil {
			return err
		}
		return s.repo.SetTransactionStatus(txCtx, transactionID, domain.TransactionStatusFailed)
	})
}
