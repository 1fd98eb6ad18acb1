package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/app"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

// LabelPurchaser is the minimal interface needed to buy a label.
type LabelPurchaser interface {
	PurchaseLabel(ctx context.Context, in app.PurchaseLabelInput) (domain.ShippingLabel, error)
}

// LabelHistory is the minimal interface needed to list a user's labels.
type LabelHistory interface {
	ListLabels(ctx context.Context, userID string) ([]domain.ShippingLabel, error)
}

// LabelReader fetches single labels.
type LabelReader interface {
	Get(ctx context.Context, labelID string) (domain.ShippingLabel, error)
}

// LabelUpdater advances status and attaches rendered documents.
type LabelUpdater interface {
	SetStatus(ctx context.Context, labelID string, next domain.LabelStatus) (domain.ShippingLabel, error)
	AttachPDF(ctx context.Context, labelID, url string) error
}

// HandleLabels serves POST /labels (purchase) and GET /labels (own history).
func HandleLabels(purchases LabelPurchaser, history LabelHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			purchaseLabel(w, r, purchases)
		case http.MethodGet:
			listLabels(w, r, history)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func purchaseLabel(w http.ResponseWriter, r *http.Request, svc LabelPurchaser) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req purchaseLabelRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	label, err := svc.PurchaseLabel(r.Context(), app.PurchaseLabelInput{
		UserID:  uid,
		From:    req.From.toDomain(),
		To:      req.To.toDomain(),
		Weight:  req.Weight,
		Service: domain.ServiceClass(req.Service),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(labelPayload(label))
}

func listLabels(w http.ResponseWriter, r *http.Request, svc LabelHistory) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	labels, err := svc.ListLabels(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payload := make([]labelResponse, 0, len(labels))
	for _, l := range labels {
		payload = append(payload, labelPayload(l))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// HandleLabelByID serves GET /labels/{id}, POST /labels/{id}/status and
// POST /labels/{id}/pdf. The status and pdf routes are carrier/renderer
// facing and carry no user session.
func HandleLabelByID(reader LabelReader, updater LabelUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labelID, action, ok := parseLabelPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			getLabel(w, r, reader, labelID)
		case action == "status" && r.Method == http.MethodPost:
			setLabelStatus(w, r, updater, labelID)
		case action == "pdf" && r.Method == http.MethodPost:
			attachLabelPDF(w, r, updater, labelID)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func getLabel(w http.ResponseWriter, r *http.Request, svc LabelReader, labelID string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	label, err := svc.Get(r.Context(), labelID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// Labels are private: a foreign label behaves as missing.
	if label.UserID != uid {
		writeError(w, http.StatusNotFound, codeLabelNotFound, domain.ErrLabelNotFound.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(labelPayload(label))
}

func setLabelStatus(w http.ResponseWriter, r *http.Request, svc LabelUpdater, labelID string) {
	var req setStatusRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	label, err := svc.SetStatus(r.Context(), labelID, domain.LabelStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(labelPayload(label))
}

func attachLabelPDF(w http.ResponseWriter, r *http.Request, svc LabelUpdater, labelID string) {
	var req attachPDFRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	if err := svc.AttachPDF(r.Context(), labelID, req.PDFURL); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseLabelPath(path string) (labelID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "labels" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] != "status" && parts[2] != "pdf" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type addressPayload struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
}

func (a addressPayload) toDomain() domain.Address {
	return domain.Address{
		Name:    a.Name,
		Company: a.Company,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

func addressFromDomain(a domain.Address) addressPayload {
	return addressPayload{
		Name:    a.Name,
		Company: a.Company,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}

type purchaseLabelRequest struct {
	From    addressPayload `json:"from"`
	To      addressPayload `json:"to"`
	Weight  float64        `json:"weight"`
	Service string         `json:"service"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type attachPDFRequest struct {
	PDFURL string `json:"pdf_url"`
}

type labelResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	From           addressPayload  `json:"from"`
	To             addressPayload  `json:"to"`
	Weight         float64         `json:"weight"`
	Service        string          `json:"service"`
	Cost           decimal.Decimal `json:"cost"`
	TrackingNumber string          `json:"tracking_number"`
	Status         string          `json:"status"`
	PDFURL         string          `json:"pdf_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func labelPayload(l domain.ShippingLabel) labelResponse {
	return labelResponse{
		ID:             l.ID,
		UserID:         l.UserID,
		From:           addressFromDomain(l.From),
		To:             addressFromDomain(l.To),
		Weight:         l.Weight,
		Service:        string(l.Service),
		Cost:           l.Cost,
		TrackingNumber: l.TrackingNumber,
		Status:         string(l.Status),
		PDFURL:         l.PDFURL,
		CreatedAt:      l.CreatedAt,
	}
}
