// Package session owns the per-client cart and favorites stores.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"trendora/internal/domain"
	"trendora/internal/persist"
	"trendora/internal/storage"
	"trendora/internal/store"
)

// Session is the state of one browser profile.
type Session struct {
	ClientID  string
	Cart      *store.Cart
	Favorites *store.Favorites
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

type Registry struct {
	slots       storage.Slots
	persistCart bool
	idleTTL     time.Duration
	now         func() time.Time
	logger      zerolog.Logger

	hydrating singleflight.Group

	mu       sync.Mutex
	sessions map[string]*entry
}

type Option func(*Registry)

// WithPersistentCart stores carts alongside favorites.
func WithPersistentCart(enabled bool) Option {
	return func(r *Registry) {
		r.persistCart = enabled
	}
}

// WithIdleTTL drops sessions unused for longer than ttl on the next Sweep.
// Zero keeps sessions for the life of the process.
func WithIdleTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.idleTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger.With().Str("component", "session").Logger()
		}
	}
}

func NewRegistry(slots storage.Slots, opts ...Option) *Registry {
	r := &Registry{
		slots:    slots,
		now:      time.Now,
		logger:   zerolog.Nop(),
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session for clientID, creating and hydrating it on first
// use. Concurrent first calls share one hydration and observe the same
// session. Hydration runs outside the registry lock, so a slow read only
// delays callers for the same client.
func (r *Registry) Get(ctx context.Context, clientID string) (*Session, error) {
	if s := r.lookup(clientID); s != nil {
		return s, nil
	}
	v, err, _ := r.hydrating.Do(clientID, func() (any, error) {
		if s := r.lookup(clientID); s != nil {
			return s, nil
		}
		s, err := r.open(ctx, clientID)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.sessions[clientID] = &entry{session: s, lastSeen: r.now()}
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (r *Registry) lookup(clientID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[clientID]
	if !ok {
		return nil
	}
	e.lastSeen = r.now()
	return e.session
}

// open builds the stores for clientID and hydrates them. A failed read
// returns domain.ErrUnavailable and nothing is cached, so the next Get
// retries.
func (r *Registry) open(ctx context.Context, clientID string) (*Session, error) {
	favOpts := []store.Option{
		store.WithPersister(persist.New[domain.LineItem](r.slots, clientID, persist.KeyFavorites, &r.logger)),
	}
	var cartOpts []store.Option
	if r.persistCart {
		cartOpts = append(cartOpts, store.WithPersister(persist.New[domain.LineItem](r.slots, clientID, persist.KeyCart, &r.logger)))
	}

	s := &Session{
		ClientID:  clientID,
		Cart:      store.NewCart(cartOpts...),
		Favorites: store.NewFavorites(favOpts...),
	}
	if err := s.Favorites.Hydrate(ctx); err != nil {
		r.logger.Warn().Err(err).Str("client_id", clientID).Msg("favorites hydration failed")
		return nil, fmt.Errorf("%w: favorites: %w", domain.ErrUnavailable, err)
	}
	if err := s.Cart.Hydrate(ctx); err != nil {
		r.logger.Warn().Err(err).Str("client_id", clientID).Msg("cart hydration failed")
		return nil, fmt.Errorf("%w: cart: %w", domain.ErrUnavailable, err)
	}

	r.logger.Debug().
		Str("client_id", clientID).
		Int("favorites", s.Favorites.Len()).
		Int("cart", s.Cart.Len()).
		Msg("session created")
	return s, nil
}

// Sweep drops sessions idle for longer than the idle TTL and returns how many
// were dropped. Persisted stores reload on the next Get; a cart kept only in
// memory is lost with its session.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		r.logger.Debug().Int("dropped", dropped).Int("live", len(r.sessions)).Msg("idle sessions evicted")
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
