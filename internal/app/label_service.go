package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/clock"
	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

type LabelRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	InsertLabel(ctx context.Context, label domain.ShippingLabel) error
	GetLabel(ctx context.Context, labelID string) (domain.ShippingLabel, error)
	GetLabelForUpdate(ctx context.Context, labelID string) (domain.ShippingLabel, error)
	UpdateLabelStatus(ctx context.Context, labelID string, status domain.LabelStatus) error
	UpdateLabelPDFURL(ctx context.Context, labelID, url string) error
}

// LabelService owns label records and tracking-number issuance.
type LabelService struct {
	repo  LabelRepository
	clock clock.Clock
}

// trackingAttempts bounds retries when a generated tracking number collides
// with an existing one.
const trackingAttempts = 4

func NewLabelService(repo LabelRepository, clk clock.Clock) *LabelService {
	return &LabelService{
		repo:  repo,
		clock: clk,
	}
}

type CreateLabelInput struct {
	UserID  string
	From    domain.Address
	To      domain.Address
	Weight  float64
	Service domain.ServiceClass
	Cost    decimal.Decimal
}

// CreateLabel persists a new label with a fresh tracking number and
// status=created. The cost is taken as given and never recomputed here.
func (s *LabelService) CreateLabel(ctx context.Context, in CreateLabelInput) (domain.ShippingLabel, error) {
	if in.UserID == "" {
		return domain.ShippingLabel{}, domain.ErrInvalidID
	}
	if in.Weight <= 0 {
		return domain.ShippingLabel{}, domain.ErrInvalidWeight
	}
	if !in.Service.Valid() {
		return domain.ShippingLabel{}, domain.ErrUnknownService
	}
	if err := in.From.Validate(); err != nil {
		return domain.ShippingLabel{}, err
	}
	if err := in.To.Validate(); err != nil {
		return domain.ShippingLabel{}, err
	}

	now := s.clock.Now()

	var err error
	for attempt := 0; attempt < trackingAttempts; attempt++ {
		label := domain.ShippingLabel{
			ID:             newID(),
			UserID:         in.UserID,
			From:           in.From,
			To:             in.To,
			Weight:         in.Weight,
			Service:        in.Service,
			Cost:           in.Cost,
			TrackingNumber: newTrackingNumber(now),
			Status:         domain.LabelStatusCreated,
			CreatedAt:      now,
		}

		err = s.repo.InsertLabel(ctx, label)
		if err == nil {
			return label, nil
		}
		if err != domain.ErrTrackingClash {
			return domain.ShippingLabel{}, err
		}
	}
	return domain.ShippingLabel{}, err
}

// SetStatus advances a label one step along created→shipped→delivered.
// Reversals and skips fail with ErrInvalidTransition.
func (s *LabelService) SetStatus(ctx context.Context, labelID string, next domain.LabelStatus) (domain.ShippingLabel, error) {
	if labelID == "" {
		return domain.ShippingLabel{}, domain.ErrInvalidID
	}
	switch next {
	case domain.LabelStatusCreated, domain.LabelStatusShipped, domain.LabelStatusDelivered:
	default:
		return domain.ShippingLabel{}, domain.ErrInvalidTransition
	}

	var result domain.ShippingLabel

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		label, err := s.repo.GetLabelForUpdate(txCtx, labelID)
		if err != nil {
			return err
		}
		if !label.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}
		if err := s.repo.UpdateLabelStatus(txCtx, labelID, next); err != nil {
			return err
		}
		label.Status = next
		result = label
		return nil
	})
	if err != nil {
		return domain.ShippingLabel{}, err
	}
	return result, nil
}

// AttachPDF records the URL of the externally rendered document.
func (s *LabelService) AttachPDF(ctx context.Context, labelID, url string) error {
	if labelID == "" {
		return domain.ErrInvalidID
	}
	if url == "" {
		return domain.ErrPDFURLRequired
	}
	return s.repo.UpdateLabelPDFURL(ctx, labelID, url)
}

// Get fetches a single label.
func (s *LabelService) Get(ctx context.Context, labelID string) (domain.ShippingLabel, error) {
	if labelID == "" {
		return domain.ShippingLabel{}, domain.ErrInvalidID
	}
	return s.repo.GetLabel(ctx, labelID)
}
