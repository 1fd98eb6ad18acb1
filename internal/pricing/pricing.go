package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

// Rates is the pricing configuration table: a flat base charge, a per-kg
// charge, and a multiplier per service class. Changing rates never changes
// the quoting algorithm.
type Rates struct {
	Base        decimal.Decimal
	PerKg       decimal.Decimal
	Multipliers map[domain.ServiceClass]decimal.Decimal
}

// DefaultRates returns the standard rate card.
func DefaultRates() Rates {
	return Rates{
		Base:  decimal.NewFromInt(8),
		PerKg: decimal.NewFromInt(2),
		Multipliers: map[domain.ServiceClass]decimal.Decimal{
			domain.ServiceGround:   decimal.NewFromInt(1),
			domain.ServicePriority: decimal.NewFromFloat(1.5),
			domain.ServiceExpress:  decimal.NewFromInt(2),
		},
	}
}

// Engine computes label costs. Pure and stateless: same inputs, same quote.
type Engine struct {
	rates Rates
}

type Option func(*Engine)

// WithRates overrides the default rate card.
func WithRates(r Rates) Option {
	return func(e *Engine) {
		if len(r.Multipliers) > 0 {
			e.rates = r
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{rates: DefaultRates()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Quote prices a shipment: (base + perKg*weight) * service multiplier,
// rounded to two decimal places.
func (e *Engine) Quote(weight float64, service domain.ServiceClass) (decimal.Decimal, error) {
	if weight <= 0 {
		return decimal.Zero, domain.ErrInvalidWeight
	}
	mult, ok := e.rates.Multipliers[service]
	if !ok {
		return decimal.Zero, domain.ErrUnknownService
	}

	w := decimal.NewFromFloat(weight)
	cost := e.rates.Base.Add(e.rates.PerKg.Mul(w)).Mul(mult).Round(2)
	return cost, nil
}
