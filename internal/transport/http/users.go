package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/app"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

// AccountRegistrar is the minimal interface needed to register a user.
type AccountRegistrar interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.User, error)
}

// AccountGetter is the minimal interface needed to read a user profile.
type AccountGetter interface {
	Get(ctx context.Context, userID string) (domain.User, error)
}

// HandleRegister returns an HTTP handler for creating accounts.
func HandleRegister(svc AccountRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		user, err := svc.Register(r.Context(), app.RegisterInput{
			Email: req.Email,
			Role:  domain.Role(req.Role),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(userPayload(user))
	}
}

// HandleMe returns the authenticated user's profile with balance.
func HandleMe(svc AccountGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		uid, ok := userID(w, r)
		if !ok {
			return
		}

		user, err := svc.Get(r.Context(), uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userPayload(user))
	}
}

type registerRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type userResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	Role      string          `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

func userPayload(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Balance:   u.Balance,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
