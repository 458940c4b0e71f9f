package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"trendora/internal/domain"
	"trendora/internal/storage"
)

type failingSlots struct {
	getErr error
	putErr error
}

func (f *failingSlots) Get(context.Context, string, string) ([]byte, error) {
	return nil, f.getErr
}

func (f *failingSlots) Put(context.Context, string, string, []byte) error {
	return f.putErr
}

func TestLoad_AbsentIsEmpty(t *testing.T) {
	a := New[domain.LineItem](storage.NewMemory(), "client", KeyFavorites, nil)
	items, err := a.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestLoad_CorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Put(ctx, "client", KeyFavorites, []byte(`[{"id":1,`)))

	a := New[domain.LineItem](slots, "client", KeyFavorites, nil)
	items, err := a.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestLoadStrict_CorruptIsError(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Put(ctx, "client", KeyOrders, []byte(`[{"orderNumber":"ORD-1"},`)))

	a := New[domain.Order](slots, "client", KeyOrders, nil)
	_, err := a.LoadStrict(ctx)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadStrict_AbsentIsEmpty(t *testing.T) {
	a := New[domain.Order](storage.NewMemory(), "client", KeyOrders, nil)
	orders, err := a.LoadStrict(context.Background())
	require.NoError(t, err)
	require.NotNil(t, orders)
	require.Empty(t, orders)
}

func TestLoad_WrongShapeIsEmpty(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Put(ctx, "client", KeyFavorites, []byte(`{"id":1}`)))

	a := New[domain.LineItem](slots, "client", KeyFavorites, nil)
	items, err := a.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestLoad_NullIsEmpty(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Put(ctx, "client", KeyFavorites, []byte(`null`)))

	a := New[domain.LineItem](slots, "client", KeyFavorites, nil)
	items, err := a.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestLoad_ReadErrorIsReturned(t *testing.T) {
	readErr := errors.New("connection refused")
	a := New[domain.LineItem](&failingSlots{getErr: readErr}, "client", KeyFavorites, nil)

	items, err := a.Load(context.Background())
	require.ErrorIs(t, err, readErr)
	require.Nil(t, items)

	_, err = a.LoadStrict(context.Background())
	require.ErrorIs(t, err, readErr)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	discounted := decimal.NewFromInt(900)
	pct := 25
	items := []domain.LineItem{
		{ID: 1, Name: "Linen Shirt", Price: decimal.NewFromInt(1200), DiscountedPrice: &discounted, Discount: &pct, Image: "/img/shirt.jpg"},
		{ID: 2, Name: "Denim Jacket", Price: decimal.RequireFromString("3499.50")},
	}

	a := New[domain.LineItem](storage.NewMemory(), "client", KeyFavorites, nil)
	require.True(t, a.Save(ctx, items))

	loaded, err := a.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, int64(1), loaded[0].ID)
	require.True(t, loaded[0].DiscountedPrice.Equal(discounted))
	require.Equal(t, 25, *loaded[0].Discount)
	require.True(t, loaded[1].Price.Equal(decimal.RequireFromString("3499.50")))

	// saving what was loaded leaves the stored collection unchanged
	require.True(t, a.Save(ctx, loaded))
	reloaded, err := a.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, loaded, reloaded)
}

func TestLoad_AcceptsPlainJSONNumbers(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Put(ctx, "client", KeyCart, []byte(`[{"id":1,"name":"Tee","price":1200,"quantity":2}]`)))

	items, err := New[domain.LineItem](slots, "client", KeyCart, nil).Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].Price.Equal(decimal.NewFromInt(1200)))
	require.Equal(t, 2, items[0].Quantity)
}

func TestSave_FailureIsSwallowed(t *testing.T) {
	a := New[domain.LineItem](&failingSlots{putErr: errors.New("quota exceeded")}, "client", KeyFavorites, nil)
	require.False(t, a.Save(context.Background(), []domain.LineItem{{ID: 1}}))
}

func TestSaveStrict_ReturnsError(t *testing.T) {
	a := New[domain.LineItem](&failingSlots{putErr: errors.New("quota exceeded")}, "client", KeyOrders, nil)
	require.EqualError(t, a.SaveStrict(context.Background(), nil), "quota exceeded")
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	a := New[domain.LineItem](slots, "client", KeyFavorites, nil)
	require.True(t, a.Save(ctx, nil))

	raw, err := slots.Get(ctx, "client", KeyFavorites)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(raw))
}
