package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"trendora/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	Sale        int64
	Discount    int
	Image       string
	Category    string
}

var demoCatalog = []productSeed{
	{1, "American Boy T-Shirt", "Comfortable cotton streetwear t-shirt.", 1600, 1200, 25, "/images/image1.png", "Trending"},
	{2, "Classic Denim Jacket", "Premium denim jacket for all seasons.", 4200, 3500, 16, "/images/image2.png", "Trending"},
	{3, "Oversized Hoodie", "Warm oversized hoodie with modern fit.", 2200, 0, 0, "/images/image3.png", "Winter"},
	{4, "Summer Dress", "Lightweight dress perfect for summer.", 3200, 2800, 12, "/images/image4.png", "Women"},
	{5, "Pant", "Premium leather boots for winter.", 5000, 4500, 10, "/images/image9.png", "Winter"},
	{6, "Floral Dress", "Beautiful floral dress for any occasion.", 3200, 0, 0, "/images/image7.png", "Women"},
	{7, "Graphic Tee", "Trendy graphic t-shirt.", 1800, 1500, 17, "/images/image8.png", "Trending"},
	{8, "Winter Coat", "Warm and stylish winter coat.", 6500, 5500, 15, "/images/image6.png", "Winter"},
}

// Products returns the demo fashion catalog. Items without a sale price carry
// no discount fields.
func Products() []domain.Product {
	out := make([]domain.Product, 0, len(demoCatalog))
	for _, s := range demoCatalog {
		p := domain.Product{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       decimal.NewFromInt(s.Price),
			Image:       s.Image,
			Category:    s.Category,
		}
		if s.Sale > 0 {
			sale := decimal.NewFromInt(s.Sale)
			pct := s.Discount
			p.DiscountedPrice = &sale
			p.Discount = &pct
		}
		out = append(out, p)
	}
	return out
}

// Apply upserts the demo catalog. It is idempotent since ids are fixed.
func Apply(ctx context.Context, w ProductWriter) (int, error) {
	n := 0
	for _, p := range Products() {
		if _, err := w.Upsert(ctx, p); err != nil {
			return n, fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
		n++
	}
	return n, nil
}
