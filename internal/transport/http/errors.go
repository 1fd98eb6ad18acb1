package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeUnauthenticated     = "unauthenticated"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidWeight       = "invalid_weight"
	codeUnknownService      = "unknown_service"
	codeInvalidAddress      = "invalid_address"
	codeInvalidAmount       = "invalid_amount"
	codeUnknownCurrency     = "unknown_currency"
	codeEmailRequired       = "email_required"
	codeEmailTaken          = "email_taken"
	codeInvalidRole         = "invalid_role"
	codePDFURLRequired      = "pdf_url_required"
	codeInvalidID           = "invalid_id"
	codeInsufficientFunds   = "insufficient_funds"
	codeUserNotFound        = "user_not_found"
	codeLabelNotFound       = "label_not_found"
	codeTransactionNotFound = "transaction_not_found"
	codeInvalidTransition   = "invalid_transition"
	codeAlreadyReversed     = "already_reversed"
	codeLedgerInconsistency = "ledger_inconsistency"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps a domain error onto an HTTP status and stable code.
// Unknown errors collapse to a generic 500 so storage details never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidWeight):
		writeError(w, http.StatusBadRequest, codeInvalidWeight, err.Error())
	case errors.Is(err, domain.ErrUnknownService):
		writeError(w, http.StatusBadRequest, codeUnknownService, err.Error())
	case errors.Is(err, domain.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, codeInvalidAddress, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, domain.ErrUnknownCurrency):
		writeError(w, http.StatusBadRequest, codeUnknownCurrency, err.Error())
	case errors.Is(err, domain.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, codeEmailRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, codeInvalidRole, err.Error())
	case errors.Is(err, domain.ErrPDFURLRequired):
		writeError(w, http.StatusBadRequest, codePDFURLRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, codeInsufficientFunds, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case errors.Is(err, domain.ErrLabelNotFound):
		writeError(w, http.StatusNotFound, codeLabelNotFound, err.Error())
	case errors.Is(err, domain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, codeTransactionNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrAlreadyReversed):
		writeError(w, http.StatusConflict, codeAlreadyReversed, err.Error())
	case errors.Is(err, domain.ErrLedgerInconsistency):
		writeError(w, http.StatusInternalServerError, codeLedgerInconsistency, "something went wrong, contact support")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error, try again")
	}
}
