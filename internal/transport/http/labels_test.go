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

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/app"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

const purchaseBody = `{
	"from": {"name":"Sender","street1":"1 Main St","city":"Austin","state":"TX","zip":"78701","phone":"555-0100"},
	"to": {"name":"Receiver","street1":"2 Oak Ave","city":"Dallas","state":"TX","zip":"75201","phone":"555-0200"},
	"weight": 2,
	"service": "ground"
}`

func stubLabel() domain.ShippingLabel {
	return domain.ShippingLabel{
		ID:             "label-123",
		UserID:         "user-1",
		Weight:         2,
		Service:        domain.ServiceGround,
		Cost:           decimal.RequireFromString("12"),
		TrackingNumber: "SC-ABC-123",
		Status:         domain.LabelStatusCreated,
		CreatedAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleLabels_Purchase(t *testing.T) {
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
			body:           purchaseBody,
			userHeader:     "user-1",
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"tracking_number":"SC-ABC-123"`,
		},
		{
			name:           "missing auth header",
			body:           purchaseBody,
			expectedStatus: http.StatusUnauthorized,
			expectedSubstr: `"unauthenticated"`,
		},
		{
			name:           "invalid json",
			body:           `{"from":`,
			userHeader:     "user-1",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid weight",
			body:           purchaseBody,
			userHeader:     "user-1",
			serviceErr:     domain.ErrInvalidWeight,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"invalid_weight"`,
		},
		{
			name:           "unknown service class",
			body:           purchaseBody,
			userHeader:     "user-1",
			serviceErr:     domain.ErrUnknownService,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "insufficient funds",
			body:           purchaseBody,
			userHeader:     "user-1",
			serviceErr:     domain.ErrInsufficientFunds,
			expectedStatus: http.StatusPaymentRequired,
			expectedSubstr: `"insufficient_funds"`,
		},
		{
			name:           "ledger inconsistency hides detail",
			body:           purchaseBody,
			userHeader:     "user-1",
			serviceErr:     domain.ErrLedgerInconsistency,
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: "contact support",
		},
		{
			name:           "internal error",
			body:           purchaseBody,
			userHeader:     "user-1",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: `"internal_error"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubPurchaseService{label: stubLabel(), err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/labels", bytes.NewBufferString(tt.body))
			if tt.userHeader != "" {
				req.Header.Set(userIDHeader, tt.userHeader)
			}
			rec := httptest.NewRecorder()

			HandleLabels(svc, &stubLabelHistory{}).ServeHTTP(rec, req)

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

func TestHandleLabels_List(t *testing.T) {
	t.Parallel()

	t.Run("returns own labels", func(t *testing.T) {
		history := &stubLabelHistory{labels: []domain.ShippingLabel{stubLabel()}}
		req := httptest.NewRequest(http.MethodGet, "/labels", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleLabels(&stubPurchaseService{}, history).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if history.gotUserID != "user-1" {
			t.Fatalf("expected list scoped to user-1, got %q", history.gotUserID)
		}
		if !strings.Contains(rec.Body.String(), `"label-123"`) {
			t.Fatalf("expected label in body, got %q", rec.Body.String())
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/labels", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleLabels(&stubPurchaseService{}, &stubLabelHistory{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("expected [], got %q", rec.Body.String())
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/labels", nil)
		rec := httptest.NewRecorder()

		HandleLabels(&stubPurchaseService{}, &stubLabelHistory{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects other methods", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/labels", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleLabels(&stubPurchaseService{}, &stubLabelHistory{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleLabelByID(t *testing.T) {
	t.Parallel()

	t.Run("get own label", func(t *testing.T) {
		reader := &stubLabelReader{label: stubLabel()}
		req := httptest.NewRequest(http.MethodGet, "/labels/label-123", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleLabelByID(reader, &stubLabelUpdater{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if reader.gotID != "label-123" {
			t.Fatalf("expected lookup of label-123, got %q", reader.gotID)
		}
	})

	t.Run("foreign label behaves as missing", func(t *testing.T) {
		reader := &stubLabelReader{label: stubLabel()}
		req := httptest.NewRequest(http.MethodGet, "/labels/label-123", nil)
		req.Header.Set(userIDHeader, "someone-else")
		rec := httptest.NewRecorder()

		HandleLabelByID(reader, &stubLabelUpdater{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("get requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/labels/label-123", nil)
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{label: stubLabel()}, &stubLabelUpdater{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("status update needs no session", func(t *testing.T) {
		shipped := stubLabel()
		shipped.Status = domain.LabelStatusShipped
		updater := &stubLabelUpdater{label: shipped}

		req := httptest.NewRequest(http.MethodPost, "/labels/label-123/status", bytes.NewBufferString(`{"status":"shipped"}`))
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{}, updater).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if updater.gotStatus != domain.LabelStatusShipped {
			t.Fatalf("expected shipped passed through, got %q", updater.gotStatus)
		}
		if !strings.Contains(rec.Body.String(), `"status":"shipped"`) {
			t.Fatalf("expected updated label in body, got %q", rec.Body.String())
		}
	})

	t.Run("invalid transition conflicts", func(t *testing.T) {
		updater := &stubLabelUpdater{err: domain.ErrInvalidTransition}
		req := httptest.NewRequest(http.MethodPost, "/labels/label-123/status", bytes.NewBufferString(`{"status":"created"}`))
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{}, updater).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"invalid_transition"`) {
			t.Fatalf("expected invalid_transition code, got %q", rec.Body.String())
		}
	})

	t.Run("attach pdf", func(t *testing.T) {
		updater := &stubLabelUpdater{}
		req := httptest.NewRequest(http.MethodPost, "/labels/label-123/pdf", bytes.NewBufferString(`{"pdf_url":"https://cdn.example.com/x.pdf"}`))
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{}, updater).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if updater.gotURL != "https://cdn.example.com/x.pdf" {
			t.Fatalf("expected url passed through, got %q", updater.gotURL)
		}
	})

	t.Run("attach pdf requires a url", func(t *testing.T) {
		updater := &stubLabelUpdater{err: domain.ErrPDFURLRequired}
		req := httptest.NewRequest(http.MethodPost, "/labels/label-123/pdf", bytes.NewBufferString(`{"pdf_url":""}`))
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{}, updater).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown subpath is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/labels/label-123/tracking", nil)
		req.Header.Set(userIDHeader, "user-1")
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{}, &stubLabelUpdater{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("wrong method on subpath is 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/labels/label-123/status", nil)
		rec := httptest.NewRecorder()

		HandleLabelByID(&stubLabelReader{}, &stubLabelUpdater{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

type stubPurchaseService struct {
	label domain.ShippingLabel
	err   error
}

func (s *stubPurchaseService) PurchaseLabel(_ context.Context, _ app.PurchaseLabelInput) (domain.ShippingLabel, error) {
	if s.err != nil {
		return domain.ShippingLabel{}, s.err
	}
	return s.label, nil
}

type stubLabelHistory struct {
	labels    []domain.ShippingLabel
	err       error
	gotUserID string
}

func (s *stubLabelHistory) ListLabels(_ context.Context, userID string) ([]domain.ShippingLabel, error) {
	s.gotUserID = userID
	return s.labels, s.err
}

type stubLabelReader struct {
	label domain.ShippingLabel
	err   error
	gotID string
}

func (s *stubLabelReader) Get(_ context.Context, labelID string) (domain.ShippingLabel, error) {
	s.gotID = labelID
	if s.err != nil {
		return domain.ShippingLabel{}, s.err
	}
	return s.label, nil
}

type stubLabelUpdater struct {
	label     domain.ShippingLabel
	err       error
	gotStatus domain.LabelStatus
	gotURL    string
}

func (s *stubLabelUpdater) SetStatus(_ context.Context, _ string, next domain.LabelStatus) (domain.ShippingLabel, error) {
	s.gotStatus = next
	if s.err != nil {
		return domain.ShippingLabel{}, s.err
	}
	return s.label, nil
}

func (s *stubLabelUpdater) AttachPDF(_ context.Context, _ string, url string) error {
	s.gotURL = url
	return s.err
}
