package store

import (
	"context"

	"github.com/shopspring/decimal"

	"trendora/internal/domain"
)

// Cart holds the items a client intends to buy. Entries are unique by product
// id and always carry a quantity of at least one.
type Cart struct {
	collection
}

func NewCart(opts ...Option) *Cart {
	c := &Cart{}
	c.init(opts)
	return c
}

// AddItem appends item with quantity 1, or bumps an existing entry by exactly
// one. The incoming quantity is ignored on both paths.
func (c *Cart) AddItem(ctx context.Context, item domain.LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := domain.CloneItems(c.items)
	if idx := c.indexOf(item.ID); idx >= 0 {
		qty := next[idx].Quantity
		if qty < 1 {
			qty = 1
		}
		next[idx].Quantity = qty + 1
	} else {
		entry := item.Clone()
		entry.Quantity = 1
		next = append(next, entry)
	}
	c.commit(ctx, next)
}

// RemoveItem deletes the entry for id. Absent ids are ignored.
func (c *Cart) RemoveItem(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := c.without(id)
	if !ok {
		return
	}
	c.commit(ctx, next)
}

// SetQuantity sets the quantity for id, clamped to a minimum of 1. Reaching
// zero never removes the entry. Absent ids are ignored.
func (c *Cart) SetQuantity(ctx context.Context, id int64, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	next := domain.CloneItems(c.items)
	next[idx].Quantity = quantity
	c.commit(ctx, next)
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit(ctx, []domain.LineItem{})
}

// Totals derives subtotal, delivery and total from the current contents.
func (c *Cart) Totals(deliveryCharge decimal.Decimal) domain.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ComputeTotals(c.items, deliveryCharge)
}

// Quantity returns the quantity for id, or 0 when absent.
func (c *Cart) Quantity(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		return c.items[idx].Quantity
	}
	return 0
}
