package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry shown in the storefront.
type Product struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	Discount        *int             `json:"discount,omitempty"`
	Image           string           `json:"image,omitempty"`
	Category        string           `json:"category,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// LineItem converts the product into a cart/favorites entry without a quantity.
func (p Product) LineItem() LineItem {
	item := LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
	}
	if p.DiscountedPrice != nil {
		v := *p.DiscountedPrice
		item.DiscountedPrice = &v
	}
	if p.Discount != nil {
		v := *p.Discount
		item.Discount = &v
	}
	return item
}
