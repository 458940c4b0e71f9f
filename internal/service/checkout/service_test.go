package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"trendora/internal/domain"
	"trendora/internal/persist"
	orderrepo "trendora/internal/repository/order"
	"trendora/internal/storage"
	"trendora/internal/store"
)

type stubGateway struct {
	err   error
	calls int
	last  PaymentRequest
}

func (g *stubGateway) Charge(_ context.Context, req PaymentRequest) error {
	g.calls++
	g.last = req
	return g.err
}

type failingOrders struct {
	err error
}

func (f failingOrders) Prepend(context.Context, string, domain.Order) error {
	return f.err
}

type recordingPublisher struct {
	orders []domain.Order
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, _ string, order domain.Order) error {
	p.orders = append(p.orders, order)
	return p.err
}

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func shirtCart(t *testing.T) *store.Cart {
	t.Helper()
	ctx := context.Background()
	c := store.NewCart()
	shirt := domain.LineItem{ID: 1, Name: "Linen Shirt", Price: decimal.NewFromInt(1200)}
	c.AddItem(ctx, shirt)
	c.AddItem(ctx, shirt)
	return c
}

func validInfo() domain.ShippingInfo {
	return domain.ShippingInfo{Name: "Asha Rai", Phone: "9800000000", Address: "Lalitpur"}
}

func TestCheckout_RecordsOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	orders := orderrepo.NewSlots(storage.NewMemory(), nil)
	gw := &stubGateway{}
	pub := &recordingPublisher{}
	svc := New(orders, gw, WithClock(func() time.Time { return fixedNow }), WithPublisher(pub))
	cart := shirtCart(t)

	order, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.NoError(t, err)

	require.Equal(t, "ORD-1777896000000", order.OrderNumber)
	require.True(t, decimal.NewFromInt(2400).Equal(order.Subtotal))
	require.True(t, decimal.NewFromInt(500).Equal(order.DeliveryCharge))
	require.True(t, decimal.NewFromInt(2900).Equal(order.Total))
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Equal(t, domain.DeliveryMorning, order.DeliveryTime)
	require.Equal(t, domain.PaymentESewa, order.PaymentMethod)
	require.Len(t, order.Items, 1)
	require.Equal(t, 2, order.Items[0].Quantity)

	require.Empty(t, cart.Items())
	require.Equal(t, 1, gw.calls)
	require.True(t, order.Total.Equal(gw.last.Amount))
	require.Len(t, pub.orders, 1)

	list, err := orders.List(ctx, "client-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, order.OrderNumber, list[0].OrderNumber)
}

func TestCheckout_NewestOrderFirst(t *testing.T) {
	ctx := context.Background()
	orders := orderrepo.NewSlots(storage.NewMemory(), nil)
	now := fixedNow
	svc := New(orders, &stubGateway{}, WithClock(func() time.Time { return now }))

	_, err := svc.Checkout(ctx, "client-a", shirtCart(t), validInfo())
	require.NoError(t, err)
	now = now.Add(time.Minute)
	second, err := svc.Checkout(ctx, "client-a", shirtCart(t), validInfo())
	require.NoError(t, err)

	list, err := orders.List(ctx, "client-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.OrderNumber, list[0].OrderNumber)
}

func TestCheckout_ShortPhoneRejected(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{}
	orders := orderrepo.NewSlots(storage.NewMemory(), nil)
	svc := New(orders, gw)
	cart := shirtCart(t)

	info := validInfo()
	info.Phone = "12345"
	_, err := svc.Checkout(ctx, "client-a", cart, info)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "phone")
	require.Zero(t, gw.calls)
	require.Len(t, cart.Items(), 1)

	list, err := orders.List(ctx, "client-a")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCheckout_ValidationCollectsFields(t *testing.T) {
	svc := New(failingOrders{}, &stubGateway{})
	_, err := svc.Checkout(context.Background(), "client-a", store.NewCart(), domain.ShippingInfo{
		Name:          "  ",
		Phone:         "98000000ab",
		PaymentMethod: "paypal",
		DeliveryTime:  "Midnight",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"name", "phone", "address", "cart", "paymentMethod", "deliveryTime"} {
		require.Contains(t, verr.Fields, field)
	}
	require.Contains(t, err.Error(), "cart: cart is empty")
}

func TestCheckout_PaymentFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("declined")
	svc := New(failingOrders{}, &stubGateway{err: boom})
	cart := shirtCart(t)

	_, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, cart.Quantity(1))
}

func TestCheckout_RecordFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	pub := &recordingPublisher{}
	svc := New(failingOrders{err: boom}, &stubGateway{}, WithPublisher(pub))
	cart := shirtCart(t)

	_, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, cart.Quantity(1))
	require.Empty(t, pub.orders)
}

func TestCheckout_PaymentTimeout(t *testing.T) {
	ctx := context.Background()
	svc := New(failingOrders{}, SimulatedGateway{Delay: time.Second}, WithTimeout(10*time.Millisecond))
	cart := shirtCart(t)

	_, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, cart.Items(), 1)
}

func TestCheckout_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := New(orderrepo.NewSlots(storage.NewMemory(), nil), &stubGateway{}, WithPublisher(pub))
	cart := shirtCart(t)

	_, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.NoError(t, err)
	require.Empty(t, cart.Items())
}

func TestCheckout_CustomDeliveryCharge(t *testing.T) {
	svc := New(orderrepo.NewSlots(storage.NewMemory(), nil), &stubGateway{}, WithDeliveryCharge(decimal.NewFromInt(150)))
	order, err := svc.Checkout(context.Background(), "client-a", shirtCart(t), validInfo())
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(2550).Equal(order.Total))
}

func TestSimulatedGateway(t *testing.T) {
	require.NoError(t, SimulatedGateway{Delay: time.Millisecond}.Charge(context.Background(), PaymentRequest{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SimulatedGateway{Delay: time.Hour}.Charge(ctx, PaymentRequest{})
	require.ErrorIs(t, err, context.Canceled)
}

type unreadableSlots struct {
	*storage.Memory
	getErr error
}

func (u *unreadableSlots) Get(ctx context.Context, scope, key string) ([]byte, error) {
	if u.getErr != nil {
		return nil, u.getErr
	}
	return u.Memory.Get(ctx, scope, key)
}

func TestCheckout_UnreadableHistoryKeepsOrdersAndCart(t *testing.T) {
	ctx := context.Background()
	slots := &unreadableSlots{Memory: storage.NewMemory()}
	orders := orderrepo.NewSlots(slots, nil)
	now := fixedNow
	svc := New(orders, &stubGateway{}, WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		_, err := svc.Checkout(ctx, "client-a", shirtCart(t), validInfo())
		require.NoError(t, err)
		now = now.Add(time.Second)
	}

	slots.getErr = errors.New("connection refused")
	cart := shirtCart(t)
	_, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	require.Len(t, cart.Items(), 1)

	slots.getErr = nil
	list, err := orders.List(ctx, "client-a")
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestCheckout_CorruptHistoryFailsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	corrupt := []byte(`[{"orderNumber":"ORD-1"},`)
	require.NoError(t, slots.Put(ctx, "client-a", persist.KeyOrders, corrupt))

	svc := New(orderrepo.NewSlots(slots, nil), &stubGateway{})
	cart := shirtCart(t)
	_, err := svc.Checkout(ctx, "client-a", cart, validInfo())
	require.ErrorIs(t, err, ErrCheckoutFailed)
	require.Len(t, cart.Items(), 1)

	raw, err := slots.Get(ctx, "client-a", persist.KeyOrders)
	require.NoError(t, err)
	require.Equal(t, corrupt, raw)
}
