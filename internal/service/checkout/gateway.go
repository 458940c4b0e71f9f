package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is what the gateway is asked to charge.
type PaymentRequest struct {
	OrderNumber string
	Amount      decimal.Decimal
	Method      string
	Customer    string
	Phone       string
}

type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) error
}

// SimulatedGateway approves every charge after Delay. It stands in for eSewa
// and Khalti, which are not integrated.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g SimulatedGateway) Charge(ctx context.Context, _ PaymentRequest) error {
	if g.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
