package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"trendora/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zerolog.Logger) Repository {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &postgresRepo{pool: pool, logger: l}
}

const selectProduct = `
SELECT id, name, COALESCE(description, ''), price, discounted_price, discount, COALESCE(image, ''), COALESCE(category, ''), created_at
FROM products
`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p          domain.Product
		discounted decimal.NullDecimal
		discount   *int32
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &discounted, &discount, &p.Image, &p.Category, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	if discounted.Valid {
		v := discounted.Decimal
		p.DiscountedPrice = &v
	}
	if discount != nil {
		v := int(*discount)
		p.Discount = &v
	}
	return p, nil
}

func (r *postgresRepo) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	q := selectProduct + `WHERE $1 = '' OR lower(category) = lower($1)
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		r.logger.Error().Err(err).Str("category", category).Msg("product repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Str("category", category).Msg("product repo: list rows")
		return nil, err
	}
	r.logger.Debug().Str("category", category).Int("count", len(result)).Msg("product repo: list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProduct+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("product repo: get")
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price, discounted_price, discount, image, category)
VALUES (COALESCE(NULLIF($1, 0), nextval('products_id_seq')), $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    discounted_price = EXCLUDED.discounted_price,
    discount = EXCLUDED.discount,
    image = EXCLUDED.image,
    category = EXCLUDED.category
RETURNING id, created_at
`
	var discounted decimal.NullDecimal
	if product.DiscountedPrice != nil {
		discounted = decimal.NewNullDecimal(*product.DiscountedPrice)
	}
	var discount *int32
	if product.Discount != nil {
		v := int32(*product.Discount)
		discount = &v
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	res := product
	err = tx.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		discounted,
		discount,
		product.Image,
		product.Category,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", product.ID).Str("name", product.Name).Msg("product repo: upsert")
		return nil, fmt.Errorf("upsert product %q: %w", product.Name, err)
	}
	if product.ID != 0 {
		// Explicit ids bypass the sequence; keep it ahead of them.
		if _, err := tx.Exec(ctx, `SELECT setval('products_id_seq', GREATEST((SELECT MAX(id) FROM products), 1))`); err != nil {
			return nil, fmt.Errorf("advance product sequence: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Debug().Int64("id", res.ID).Str("name", res.Name).Msg("product repo: upserted")
	return &res, nil
}
