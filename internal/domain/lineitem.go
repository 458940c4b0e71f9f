package domain

import "github.com/shopspring/decimal"

// LineItem is a product entry held by the cart and favorites stores.
// Quantity is only meaningful in the cart.
type LineItem struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	Image           string           `json:"image,omitempty"`
	Description     string           `json:"description,omitempty"`
	Discount        *int             `json:"discount,omitempty"`
	Quantity        int              `json:"quantity,omitempty"`
}

// EffectivePrice is the discounted price when set and non-zero, else the base price.
func (li LineItem) EffectivePrice() decimal.Decimal {
	if li.DiscountedPrice != nil && !li.DiscountedPrice.IsZero() {
		return *li.DiscountedPrice
	}
	return li.Price
}

// LineTotal is EffectivePrice times quantity. A missing quantity counts as one.
func (li LineItem) LineTotal() decimal.Decimal {
	qty := li.Quantity
	if qty < 1 {
		qty = 1
	}
	return li.EffectivePrice().Mul(decimal.NewFromInt(int64(qty)))
}

// Clone returns a deep copy; optional pointer fields are not shared.
func (li LineItem) Clone() LineItem {
	out := li
	if li.DiscountedPrice != nil {
		v := *li.DiscountedPrice
		out.DiscountedPrice = &v
	}
	if li.Discount != nil {
		v := *li.Discount
		out.Discount = &v
	}
	return out
}

// CloneItems deep-copies a collection. A nil input yields an empty, non-nil slice.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.Clone())
	}
	return out
}
