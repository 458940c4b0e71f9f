package order

import (
	"context"

	"trendora/internal/domain"
)

// Repository keeps each client's order history, newest first.
type Repository interface {
	Prepend(ctx context.Context, clientID string, order domain.Order) error
	List(ctx context.Context, clientID string) ([]domain.Order, error)
	Get(ctx context.Context, clientID, orderNumber string) (*domain.Order, error)
	// UpdateStatus sets the order's status. When from is non-empty the order
	// must currently hold one of those statuses, checked under the same lock
	// as the write; otherwise domain.ErrStatusConflict is returned.
	UpdateStatus(ctx context.Context, clientID, orderNumber string, status domain.OrderStatus, from ...domain.OrderStatus) (*domain.Order, error)
}
