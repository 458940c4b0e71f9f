package catalog

import (
	"context"
	"errors"
	"strings"

	"trendora/internal/domain"
)

type productRepo interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type Service struct {
	repo productRepo
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

// List returns the catalog, optionally narrowed to one category.
// "all" is treated as no filter.
func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	return s.repo.List(ctx, category)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, errors.New("product id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

// LineItem resolves id to a cart/favorites entry.
func (s *Service) LineItem(ctx context.Context, id int64) (domain.LineItem, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.LineItem{}, err
	}
	return p.LineItem(), nil
}
