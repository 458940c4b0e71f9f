// Package persist round-trips whole collections through a storage slot as a
// JSON array. Absent or corrupt slots load as an empty collection; a failed
// read is reported so callers never write over data they could not see.
// Write failures are logged and swallowed.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"trendora/internal/domain"
	"trendora/internal/storage"
)

// ErrCorrupt marks a slot whose content is not a JSON array of T.
var ErrCorrupt = errors.New("corrupt slot")

// Fixed slot keys.
const (
	KeyFavorites = "trendora_favorites"
	KeyCart      = "trendora_cart"
	KeyOrders    = "orders"
)

// Adapter persists a []T under one key of one scope.
type Adapter[T any] struct {
	slots  storage.Slots
	scope  string
	key    string
	logger zerolog.Logger
}

// New binds an adapter to scope/key. A nil logger disables logging.
func New[T any](slots storage.Slots, scope, key string, logger *zerolog.Logger) *Adapter[T] {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("scope", scope).Str("key", key).Logger()
	}
	return &Adapter[T]{slots: slots, scope: scope, key: key, logger: l}
}

// Load returns the stored collection. Absent and corrupt slots load as empty.
// A read failure is returned so the caller can retry instead of treating
// storage as empty.
func (a *Adapter[T]) Load(ctx context.Context) ([]T, error) {
	out, err := a.LoadStrict(ctx)
	if errors.Is(err, ErrCorrupt) {
		a.logger.Warn().Err(err).Msg("corrupt slot, starting empty")
		return []T{}, nil
	}
	return out, err
}

// LoadStrict is Load without the corrupt-slot fallback. Only an absent slot
// counts as empty; corrupt content yields ErrCorrupt.
func (a *Adapter[T]) LoadStrict(ctx context.Context) ([]T, error) {
	raw, err := a.slots.Get(ctx, a.scope, a.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		a.logger.Warn().Err(err).Msg("slot read failed")
		return nil, fmt.Errorf("read %s: %w", a.key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorrupt, a.key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Save writes the full collection. It reports whether the write succeeded;
// callers that must not commit on failure (order recording) use SaveStrict.
func (a *Adapter[T]) Save(ctx context.Context, items []T) bool {
	if err := a.SaveStrict(ctx, items); err != nil {
		a.logger.Error().Err(err).Int("count", len(items)).Msg("slot write failed")
		return false
	}
	return true
}

// SaveStrict is Save but returns the error instead of logging it.
func (a *Adapter[T]) SaveStrict(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return a.slots.Put(ctx, a.scope, a.key, raw)
}
