package store

import (
	"context"
	"sync"

	"trendora/internal/domain"
)

// Persister is the durable side of a store. persist.Adapter[domain.LineItem]
// satisfies it.
type Persister interface {
	Load(ctx context.Context) ([]domain.LineItem, error)
	Save(ctx context.Context, items []domain.LineItem) bool
}

// Listener receives a copy of the collection after every change.
type Listener func(items []domain.LineItem)

// Option configures a store at construction.
type Option func(*collection)

// WithPersister makes the store durable. Writes start only after Hydrate.
func WithPersister(p Persister) Option {
	return func(c *collection) {
		c.persister = p
	}
}

// collection is the mutex-guarded state shared by Cart and Favorites.
// Every mutation replaces the whole slice, so concurrent callers resolve
// last-write-wins and a save always writes a complete collection.
type collection struct {
	mu        sync.Mutex
	items     []domain.LineItem
	persister Persister
	hydrated  bool
	listeners map[uint64]Listener
	nextID    uint64
}

func (c *collection) init(opts []Option) {
	c.items = []domain.LineItem{}
	for _, opt := range opts {
		opt(c)
	}
}

// Hydrate loads persisted state once and opens the write gate. Until then no
// mutation is written, so an empty initial state cannot clobber stored data.
// A failed load leaves the gate closed and the collection untouched; Hydrate
// may be called again. Once it has succeeded further calls are no-ops.
func (c *collection) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hydrated {
		return nil
	}
	if c.persister != nil {
		items, err := c.persister.Load(ctx)
		if err != nil {
			return err
		}
		c.items = items
	}
	c.hydrated = true
	c.notify()
	return nil
}

// Hydrated reports whether Hydrate has completed.
func (c *collection) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// Persistent reports whether the store writes through to storage.
func (c *collection) Persistent() bool {
	return c.persister != nil
}

// Subscribe registers l and returns a function that removes it. Listeners run
// synchronously with the store locked and must not call back into the store.
func (c *collection) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = make(map[uint64]Listener)
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Items returns a deep copy of the collection.
func (c *collection) Items() []domain.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneItems(c.items)
}

// Len returns the number of entries.
func (c *collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// commit installs next, persists it when the gate is open and notifies
// listeners. Callers hold c.mu.
func (c *collection) commit(ctx context.Context, next []domain.LineItem) {
	c.items = next
	if c.persister != nil && c.hydrated {
		c.persister.Save(ctx, domain.CloneItems(next))
	}
	c.notify()
}

func (c *collection) notify() {
	if len(c.listeners) == 0 {
		return
	}
	for _, l := range c.listeners {
		l(domain.CloneItems(c.items))
	}
}

func (c *collection) indexOf(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *collection) without(id int64) ([]domain.LineItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	next := make([]domain.LineItem, 0, len(c.items)-1)
	next = append(next, c.items[:idx]...)
	next = append(next, c.items[idx+1:]...)
	return next, true
}
