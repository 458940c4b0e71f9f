package product

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"trendora/internal/domain"
)

// Memory is a process-local catalog used with the memory storage backend.
type Memory struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	nextID   int64
}

func NewMemory() *Memory {
	return &Memory{products: make(map[int64]domain.Product), nextID: 1}
}

func (m *Memory) List(_ context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []domain.Product{}
	for _, p := range m.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b domain.Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return result, nil
}

func (m *Memory) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) Upsert(_ context.Context, product domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.ID == 0 {
		product.ID = m.nextID
	}
	if product.ID >= m.nextID {
		m.nextID = product.ID + 1
	}
	if existing, ok := m.products[product.ID]; ok {
		product.CreatedAt = existing.CreatedAt
	} else if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	m.products[product.ID] = product
	return &product, nil
}
