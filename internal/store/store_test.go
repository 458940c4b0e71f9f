package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"trendora/internal/domain"
	"trendora/internal/persist"
	"trendora/internal/storage"
)

func item(id int64, price int64) domain.LineItem {
	return domain.LineItem{ID: id, Name: "item", Price: decimal.NewFromInt(price)}
}

type recordingPersister struct {
	stored  []domain.LineItem
	saves   [][]domain.LineItem
	loadErr error
}

func (r *recordingPersister) Load(context.Context) ([]domain.LineItem, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return domain.CloneItems(r.stored), nil
}

func (r *recordingPersister) Save(_ context.Context, items []domain.LineItem) bool {
	r.saves = append(r.saves, items)
	r.stored = items
	return true
}

func TestCart_AddTwiceIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	c.AddItem(ctx, item(1, 1200))
	c.AddItem(ctx, item(1, 1200))

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Quantity)
}

func TestCart_AddIgnoresIncomingQuantity(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	in := item(1, 100)
	in.Quantity = 7
	c.AddItem(ctx, in)
	require.Equal(t, 1, c.Quantity(1))

	c.AddItem(ctx, in)
	require.Equal(t, 2, c.Quantity(1))
}

func TestCart_SetQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	c.AddItem(ctx, item(1, 100))

	c.SetQuantity(ctx, 1, 5)
	require.Equal(t, 5, c.Quantity(1))

	c.SetQuantity(ctx, 1, 0)
	require.Equal(t, 1, c.Quantity(1))

	c.SetQuantity(ctx, 1, -3)
	require.Equal(t, 1, c.Quantity(1))
	require.Equal(t, 1, c.Len())
}

func TestCart_SetQuantityAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	calls := 0
	c.Subscribe(func([]domain.LineItem) { calls++ })

	c.SetQuantity(ctx, 42, 3)
	require.Zero(t, c.Len())
	require.Zero(t, calls)
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	c.AddItem(ctx, item(1, 100))
	before := c.Items()

	c.RemoveItem(ctx, 99)
	require.Equal(t, before, c.Items())

	c.RemoveItem(ctx, 1)
	require.Empty(t, c.Items())
}

func TestCart_Totals(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	delivery := decimal.NewFromInt(500)

	empty := c.Totals(delivery)
	require.True(t, empty.Total.IsZero())
	require.True(t, empty.DeliveryCharge.IsZero())

	c.AddItem(ctx, item(1, 1200))
	c.AddItem(ctx, item(1, 1200))

	discounted := decimal.NewFromInt(800)
	shoe := item(2, 1000)
	shoe.DiscountedPrice = &discounted
	c.AddItem(ctx, shoe)

	tot := c.Totals(delivery)
	require.True(t, decimal.NewFromInt(3200).Equal(tot.Subtotal), tot.Subtotal.String())
	require.True(t, decimal.NewFromInt(3700).Equal(tot.Total), tot.Total.String())
}

func TestCart_ItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	c.AddItem(ctx, item(1, 100))

	items := c.Items()
	items[0].Quantity = 50
	require.Equal(t, 1, c.Quantity(1))
}

func TestFavorites_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites()
	f.Add(ctx, item(1, 100))
	f.Add(ctx, item(1, 100))

	require.Len(t, f.Items(), 1)
	require.True(t, f.Contains(1))
	require.False(t, f.Contains(2))
}

func TestFavorites_DropsQuantity(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites()
	in := item(1, 100)
	in.Quantity = 3
	f.Add(ctx, in)

	got, ok := f.Get(1)
	require.True(t, ok)
	require.Zero(t, got.Quantity)
}

func TestFavorites_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites()
	f.Add(ctx, item(1, 100))
	f.Add(ctx, item(2, 200))

	f.Remove(ctx, 3)
	require.Len(t, f.Items(), 2)

	f.Remove(ctx, 1)
	require.False(t, f.Contains(1))

	f.Clear(ctx)
	require.Empty(t, f.Items())
}

func TestFavoriteToCart_StartsAtOne(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites()
	c := NewCart()
	f.Add(ctx, item(5, 900))

	fav, ok := f.Get(5)
	require.True(t, ok)
	c.AddItem(ctx, fav)
	require.Equal(t, 1, c.Quantity(5))
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	ctx := context.Background()
	f := NewFavorites()
	var seen [][]domain.LineItem
	unsubscribe := f.Subscribe(func(items []domain.LineItem) { seen = append(seen, items) })

	f.Add(ctx, item(1, 100))
	f.Add(ctx, item(2, 100))
	require.Len(t, seen, 2)
	require.Len(t, seen[1], 2)

	unsubscribe()
	unsubscribe()
	f.Clear(ctx)
	require.Len(t, seen, 2)
}

func TestHydrate_NoWritesBeforeHydration(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{stored: []domain.LineItem{item(9, 100)}}
	f := NewFavorites(WithPersister(p))

	f.Add(ctx, item(1, 100))
	require.Empty(t, p.saves)
	require.False(t, f.Hydrated())

	require.NoError(t, f.Hydrate(ctx))
	require.True(t, f.Hydrated())
	require.Empty(t, p.saves)
	require.Len(t, f.Items(), 1)
	require.True(t, f.Contains(9))

	f.Add(ctx, item(2, 100))
	require.Len(t, p.saves, 1)
	require.Len(t, p.saves[0], 2)
}

func TestHydrate_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{stored: []domain.LineItem{item(9, 100)}}
	f := NewFavorites(WithPersister(p))
	require.NoError(t, f.Hydrate(ctx))
	f.Remove(ctx, 9)

	p.stored = []domain.LineItem{item(7, 100)}
	require.NoError(t, f.Hydrate(ctx))
	require.Empty(t, f.Items())
}

func TestHydrate_ReadErrorKeepsGateClosed(t *testing.T) {
	ctx := context.Background()
	p := &recordingPersister{
		stored:  []domain.LineItem{item(1, 100), item(2, 100), item(3, 100)},
		loadErr: errors.New("connection reset"),
	}
	f := NewFavorites(WithPersister(p))

	require.Error(t, f.Hydrate(ctx))
	require.False(t, f.Hydrated())

	f.Add(ctx, item(9, 100))
	require.Empty(t, p.saves)
	require.Len(t, p.stored, 3)

	p.loadErr = nil
	require.NoError(t, f.Hydrate(ctx))
	require.True(t, f.Hydrated())
	require.Len(t, f.Items(), 3)

	f.Add(ctx, item(9, 100))
	require.Len(t, p.saves, 1)
	require.Len(t, p.saves[0], 4)
}

func TestHydrate_WithoutPersister(t *testing.T) {
	ctx := context.Background()
	c := NewCart()
	require.False(t, c.Persistent())
	c.AddItem(ctx, item(1, 100))
	require.NoError(t, c.Hydrate(ctx))
	require.True(t, c.Hydrated())
	require.Equal(t, 1, c.Len())
}

func TestCart_PersistsThroughAdapter(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	adapter := persist.New[domain.LineItem](slots, "client-a", persist.KeyCart, nil)

	c := NewCart(WithPersister(adapter))
	require.True(t, c.Persistent())
	require.NoError(t, c.Hydrate(ctx))
	c.AddItem(ctx, item(1, 1200))
	c.AddItem(ctx, item(1, 1200))

	raw, err := slots.Get(ctx, "client-a", persist.KeyCart)
	require.NoError(t, err)
	var stored []domain.LineItem
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	require.Equal(t, 2, stored[0].Quantity)

	reloaded := NewCart(WithPersister(adapter))
	require.NoError(t, reloaded.Hydrate(ctx))
	require.Equal(t, 2, reloaded.Quantity(1))
}

func TestFavorites_CorruptSlotHydratesEmpty(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemory()
	require.NoError(t, slots.Put(ctx, "client-a", persist.KeyFavorites, []byte("not json")))

	f := NewFavorites(WithPersister(persist.New[domain.LineItem](slots, "client-a", persist.KeyFavorites, nil)))
	require.NoError(t, f.Hydrate(ctx))
	require.Empty(t, f.Items())

	f.Add(ctx, item(1, 100))
	raw, err := slots.Get(ctx, "client-a", persist.KeyFavorites)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"id":1`)
}
