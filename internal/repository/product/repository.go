package product

import (
	"context"

	"trendora/internal/domain"
)

// Repository reads and writes catalog products. An empty category lists all.
type Repository interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
