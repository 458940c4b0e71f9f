package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"trendora/internal/domain"
)

// ErrCheckoutFailed wraps every payment, timeout or recording failure. The
// cart is left untouched when it is returned.
var ErrCheckoutFailed = errors.New("checkout failed")

const (
	DefaultDeliveryCharge = 500
	DefaultTimeout        = 10 * time.Second
)

// Cart is the part of a client's cart that checkout reads and clears.
type Cart interface {
	Items() []domain.LineItem
	Clear(ctx context.Context)
}

type orderRepo interface {
	Prepend(ctx context.Context, clientID string, order domain.Order) error
}

type eventPublisher interface {
	PublishOrderPlaced(ctx context.Context, clientID string, order domain.Order) error
}

type Service struct {
	orders         orderRepo
	gateway        PaymentGateway
	events         eventPublisher
	deliveryCharge decimal.Decimal
	timeout        time.Duration
	now            func() time.Time
	logger         zerolog.Logger
}

type Option func(*Service)

func WithDeliveryCharge(charge decimal.Decimal) Option {
	return func(s *Service) { s.deliveryCharge = charge }
}

// WithTimeout bounds the payment call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithPublisher(p eventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.With().Str("component", "checkout").Logger()
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(orders orderRepo, gateway PaymentGateway, opts ...Option) *Service {
	s := &Service{
		orders:         orders,
		gateway:        gateway,
		deliveryCharge: decimal.NewFromInt(DefaultDeliveryCharge),
		timeout:        DefaultTimeout,
		now:            time.Now,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) DeliveryCharge() decimal.Decimal {
	return s.deliveryCharge
}

// Checkout validates info against the cart, charges the gateway, records the
// order at the head of the client's history and only then clears the cart.
func (s *Service) Checkout(ctx context.Context, clientID string, cart Cart, info domain.ShippingInfo) (*domain.Order, error) {
	info = normalize(info)
	items := cart.Items()
	if err := validate(info, len(items)); err != nil {
		return nil, err
	}

	submitted := s.now().UTC()
	totals := domain.ComputeTotals(items, s.deliveryCharge)
	order := domain.Order{
		OrderNumber:     fmt.Sprintf("ORD-%d", submitted.UnixMilli()),
		Date:            submitted,
		Items:           domain.SnapshotLines(items),
		Subtotal:        totals.Subtotal,
		DeliveryCharge:  totals.DeliveryCharge,
		Total:           totals.Total,
		Status:          domain.OrderStatusPending,
		CustomerName:    info.Name,
		CustomerPhone:   info.Phone,
		DeliveryAddress: info.Address,
		DeliveryTime:    info.DeliveryTime,
		PaymentMethod:   info.PaymentMethod,
	}
	log := s.logger.With().Str("client_id", clientID).Str("order_number", order.OrderNumber).Logger()

	payCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.gateway.Charge(payCtx, PaymentRequest{
		OrderNumber: order.OrderNumber,
		Amount:      order.Total,
		Method:      order.PaymentMethod,
		Customer:    order.CustomerName,
		Phone:       order.CustomerPhone,
	})
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("payment failed")
		return nil, fmt.Errorf("%w: payment: %w", ErrCheckoutFailed, err)
	}

	if err := s.orders.Prepend(ctx, clientID, order); err != nil {
		log.Error().Err(err).Msg("record order failed")
		return nil, fmt.Errorf("%w: record order: %w", ErrCheckoutFailed, err)
	}
	cart.Clear(ctx)
	log.Info().Str("total", order.Total.String()).Int("lines", len(order.Items)).Msg("order placed")

	if s.events != nil {
		if err := s.events.PublishOrderPlaced(ctx, clientID, order); err != nil {
			log.Error().Err(err).Msg("publish order event failed")
		}
	}
	return &order, nil
}
