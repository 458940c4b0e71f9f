package orders

import (
	"context"
	"errors"
	"strings"

	"trendora/internal/domain"
)

var (
	// ErrNotCancellable is returned when an order has left pending/processing.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
	// ErrOrderNumberRequired is returned for a blank order number.
	ErrOrderNumberRequired = errors.New("order number required")
)

// cancellable are the statuses Cancel starts from.
var cancellable = []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusProcessing}

type orderRepo interface {
	List(ctx context.Context, clientID string) ([]domain.Order, error)
	Get(ctx context.Context, clientID, orderNumber string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, clientID, orderNumber string, status domain.OrderStatus, from ...domain.OrderStatus) (*domain.Order, error)
}

type Service struct {
	repo orderRepo
}

func New(repo orderRepo) *Service {
	return &Service{repo: repo}
}

// List returns the client's orders newest first. filter is "all", empty or
// one status.
func (s *Service) List(ctx context.Context, clientID, filter string) ([]domain.Order, error) {
	all, err := s.repo.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, "all") {
		return all, nil
	}
	status, err := domain.ParseOrderStatus(filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, clientID, orderNumber string) (*domain.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	return s.repo.Get(ctx, clientID, orderNumber)
}

// UpdateStatus moves an order to status. It is the only mutation orders allow.
func (s *Service) UpdateStatus(ctx context.Context, clientID, orderNumber, status string) (*domain.Order, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	return s.repo.UpdateStatus(ctx, clientID, orderNumber, st)
}

// Cancel moves a pending or processing order to cancelled. The status check
// and the write happen in one repository call, so a concurrent ship is never
// overwritten.
func (s *Service) Cancel(ctx context.Context, clientID, orderNumber string) (*domain.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	o, err := s.repo.UpdateStatus(ctx, clientID, orderNumber, domain.OrderStatusCancelled, cancellable...)
	if errors.Is(err, domain.ErrStatusConflict) {
		return nil, ErrNotCancellable
	}
	return o, err
}
