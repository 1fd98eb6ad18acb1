package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

func stubDeposit() domain.Transaction {
	return domain.Transaction{
		ID:       "tx-123",
		UserID:   "user-1",
		Amount:   decimal.RequireFromString("25.50"),
		Currency: domain.CurrencyETH,
		Status:   domain.TransactionStatusCompleted,
		Type:     domain.TransactionTypeDeposit,
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleDeposit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		userHeader     string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"amount":"25.50","currency":"ETH"}`,
			userHeader:     "user-1",
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"tx-123"`,
		},
		{
			name:           "missing auth header",
			body:           `{"amount":"25.50","currency":"ETH"}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid json",
			body:           `{"amount":`,
			userHeader:     "user-1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid amount",
			body:           `{"amount":"0","currency":"ETH"}`,
			userHeader:     "user-1",
			serviceErr:     domain.ErrInvalidAmount,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_amount"`,
		},
		{
			name:           "unknown currency",
			body:           `{"amount":"10","currency":"DOGE"}`,
			userHeader:     "user-1",
			serviceErr:     domain.ErrUnknownCurrency,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"unknown_currency"`,
		},
		{
			name:           "unknown user",
			body:           `{"amount":"10","currency":"ETH"}`,
			userHeader:     "ghost",
			serviceErr:     domain.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error",
			body:           `{"amount":"10","currency":"ETH"}`,
			userHeader:     "user-1",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubWalletService{tx: stubDeposit(), err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/wallet/deposits", bytes.NewBufferString(tt.body))
			if tt.userHeader != "" {
				req.Header.Set(userIDHeader, tt.userHeader)
			}
			rec := httptest.NewRecorder()

			HandleDeposit(svc).ServeHTTP(rec, req)

			res := rec.Result()
			if res.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, res.StatusCode)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleListTransactions(t *testing.T) {
	t.Parallel()

	t.Run("returns own ledger", func(t *testing.T) {
		svc := &stubWalletService{transactions: []domain.Transaction{stubDeposit()}}
		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleListTransactions(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.gotUserID != "user-1" {
			t.Fatalf("expected list scoped to user-1, got %q", svc.gotUserID)
		}
		if !strings.Contains(rec.Body.String(), `"type":"deposit"`) {
			t.Fatalf("expected deposit in body, got %q", rec.Body.String())
		}
	})

	t.Run("empty ledger is an empty array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleListTransactions(&stubWalletService{}).ServeHTTP(rec, req)

		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("expected [], got %q", rec.Body.String())
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wallet/transactions", nil)
		rec := httptest.NewRecorder()

		HandleListTransactions(&stubWalletService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

type stubWalletService struct {
	tx           domain.Transaction
	transactions []domain.Transaction
	err          error
	gotUserID    string
}

func (s *stubWalletService) Credit(_ context.Context, userID string, _ decimal.Decimal, _ domain.Currency) (domain.Transaction, error) {
	s.gotUserID = userID
	if s.err != nil {
		return domain.Transaction{}, s.err
	}
	return s.tx, nil
}

func (s *stubWalletService) ListTransactions(_ context.Context, userID string) ([]domain.Transaction, error) {
	s.gotUserID = userID
	return s.transactions, s.err
}
