package order

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"trendora/internal/domain"
	"trendora/internal/persist"
	"trendora/internal/storage"
)

type slotRepo struct {
	slots  storage.Slots
	logger *zerolog.Logger

	// mu serializes read-modify-write cycles on the orders slot.
	mu sync.Mutex
}

// NewSlots stores orders as a JSON array in the client's "orders" slot.
// Writes only proceed after a clean read: an unreadable or corrupt history
// is never replaced.
func NewSlots(slots storage.Slots, logger *zerolog.Logger) Repository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &slotRepo{slots: slots, logger: logger}
}

func (r *slotRepo) adapter(clientID string) *persist.Adapter[domain.Order] {
	return persist.New[domain.Order](r.slots, clientID, persist.KeyOrders, r.logger)
}

// loadForWrite reads the history strictly. Callers hold r.mu.
func (r *slotRepo) loadForWrite(ctx context.Context, a *persist.Adapter[domain.Order], clientID string) ([]domain.Order, error) {
	orders, err := a.LoadStrict(ctx)
	if err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Msg("order repo: history unreadable, refusing write")
		return nil, fmt.Errorf("%w: load orders: %w", domain.ErrUnavailable, err)
	}
	return orders, nil
}

func (r *slotRepo) Prepend(ctx context.Context, clientID string, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.adapter(clientID)
	existing, err := r.loadForWrite(ctx, a, clientID)
	if err != nil {
		return err
	}
	for _, o := range existing {
		if o.OrderNumber == order.OrderNumber {
			return fmt.Errorf("order %s: %w", order.OrderNumber, domain.ErrAlreadyExists)
		}
	}
	next := make([]domain.Order, 0, len(existing)+1)
	next = append(next, order)
	next = append(next, existing...)
	if err := a.SaveStrict(ctx, next); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("order_number", order.OrderNumber).Msg("order repo: prepend failed")
		return fmt.Errorf("save orders: %w", err)
	}
	r.logger.Info().Str("client_id", clientID).Str("order_number", order.OrderNumber).Int("count", len(next)).Msg("order repo: recorded")
	return nil
}

func (r *slotRepo) List(ctx context.Context, clientID string) ([]domain.Order, error) {
	orders, err := r.adapter(clientID).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load orders: %w", domain.ErrUnavailable, err)
	}
	return orders, nil
}

func (r *slotRepo) Get(ctx context.Context, clientID, orderNumber string) (*domain.Order, error) {
	orders, err := r.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.OrderNumber == orderNumber {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *slotRepo) UpdateStatus(ctx context.Context, clientID, orderNumber string, status domain.OrderStatus, from ...domain.OrderStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.adapter(clientID)
	orders, err := r.loadForWrite(ctx, a, clientID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(orders, func(o domain.Order) bool { return o.OrderNumber == orderNumber })
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if len(from) > 0 && !slices.Contains(from, orders[i].Status) {
		return nil, fmt.Errorf("order %s is %s: %w", orderNumber, orders[i].Status, domain.ErrStatusConflict)
	}
	orders[i].Status = status
	if err := a.SaveStrict(ctx, orders); err != nil {
		return nil, fmt.Errorf("save orders: %w", err)
	}
	r.logger.Info().Str("client_id", clientID).Str("order_number", orderNumber).Str("status", string(status)).Msg("order repo: status updated")
	updated := orders[i]
	return &updated, nil
}
