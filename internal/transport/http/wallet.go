package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

// Depositor is the minimal interface needed to credit a balance.
type Depositor interface {
	Credit(ctx context.Context, userID string, amount decimal.Decimal, currency domain.Currency) (domain.Transaction, error)
}

// TransactionHistory is the minimal interface needed to list a user's ledger.
type TransactionHistory interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// HandleDeposit returns an HTTP handler for topping up a balance.
func HandleDeposit(svc Depositor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		var req depositRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		tx, err := svc.Credit(r.Context(), uid, req.Amount, domain.Currency(req.Currency))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(transactionPayload(tx))
	}
}

// HandleListTransactions returns the authenticated user's ledger history,
// newest first.
func HandleListTransactions(svc TransactionHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		txs, err := svc.ListTransactions(r.Context(), uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		payload := make([]transactionResponse, 0, len(txs))
		for _, tx := range txs {
			payload = append(payload, transactionPayload(tx))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type depositRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type transactionResponse struct {
	ID       string          `json:"id"`
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   string          `json:"status"`
	Type     string          `json:"type"`
	Date     time.Time       `json:"date"`
}

func transactionPayload(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID,
		UserID:   tx.UserID,
		Amount:   tx.Amount,
		Currency: string(tx.Currency),
		Status:   string(tx.Status),
		Type:     string(tx.Type),
		Date:     tx.Date,
	}
}
