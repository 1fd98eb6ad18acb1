package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceClass string

const (
	ServiceGround   ServiceClass = "ground"
	ServicePriority ServiceClass = "priority"
	ServiceExpress  ServiceClass = "express"
)

// Valid reports whether s is one of the known service classes.
func (s ServiceClass) Valid() bool {
	switch s {
	case ServiceGround, ServicePriority, ServiceExpress:
		return true
	}
	return false
}

type LabelStatus string

const (
	LabelStatusCreated   LabelStatus = "created"
	LabelStatusShipped   LabelStatus = "shipped"
	LabelStatusDelivered LabelStatus = "delivered"
)

var labelStatusRank = map[LabelStatus]int{
	LabelStatusCreated:   0,
	LabelStatusShipped:   1,
	LabelStatusDelivered: 2,
}

// CanTransitionTo reports whether next is the single forward step from s.
// created→shipped→delivered only; no reversals, no skipping.
func (s LabelStatus) CanTransitionTo(next LabelStatus) bool {
	from, ok := labelStatusRank[s]
	if !ok {
		return false
	}
	to, ok := labelStatusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// ShippingLabel is a purchased label. Cost is fixed at creation and never
// recomputed; TrackingNumber is allocated exactly once and never reused.
type ShippingLabel struct {
	ID             string
	UserID         string
	From           Address
	To             Address
	Weight         float64
	Service        ServiceClass
	Cost           decimal.Decimal
	TrackingNumber string
	Status         LabelStatus
	PDFURL         string
	CreatedAt      time.Time
}
