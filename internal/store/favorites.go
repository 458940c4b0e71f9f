package store

import (
	"context"

	"trendora/internal/domain"
)

// Favorites is a set of saved products keyed by id. It has no quantities.
type Favorites struct {
	collection
}

func NewFavorites(opts ...Option) *Favorites {
	f := &Favorites{}
	f.init(opts)
	return f
}

// Add saves item unless its id is already present.
func (f *Favorites) Add(ctx context.Context, item domain.LineItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.indexOf(item.ID) >= 0 {
		return
	}
	entry := item.Clone()
	entry.Quantity = 0
	next := append(domain.CloneItems(f.items), entry)
	f.commit(ctx, next)
}

// Remove deletes id. Absent ids are ignored.
func (f *Favorites) Remove(ctx context.Context, id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, ok := f.without(id)
	if !ok {
		return
	}
	f.commit(ctx, next)
}

// Clear removes every saved product.
func (f *Favorites) Clear(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commit(ctx, []domain.LineItem{})
}

// Contains reports whether id is saved.
func (f *Favorites) Contains(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(id) >= 0
}

// Get returns the saved entry for id.
func (f *Favorites) Get(id int64) (domain.LineItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idx := f.indexOf(id); idx >= 0 {
		return f.items[idx].Clone(), true
	}
	return domain.LineItem{}, false
}
