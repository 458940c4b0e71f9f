package domain

import "github.com/shopspring/decimal"

// Totals is the derived price summary of a cart.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals sums effective line totals. The delivery charge applies only
// to a non-empty cart.
func ComputeTotals(items []LineItem, deliveryCharge decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	delivery := decimal.Zero
	if len(items) > 0 {
		delivery = deliveryCharge
	}
	return Totals{
		Subtotal:       subtotal,
		DeliveryCharge: delivery,
		Total:          subtotal.Add(delivery),
	}
}
