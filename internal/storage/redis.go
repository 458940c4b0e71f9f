package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"trendora/internal/domain"
)

// RedisOption customizes the client built by NewRedisClient.
type RedisOption func(*redis.Options)

func WithRedisPassword(password string) RedisOption {
	return func(o *redis.Options) {
		o.Password = password
	}
}

func WithRedisDB(db int) RedisOption {
	return func(o *redis.Options) {
		o.DB = db
	}
}

// NewRedisClient builds a client for addr and verifies it with PING.
func NewRedisClient(ctx context.Context, addr string, opts ...RedisOption) (*redis.Client, error) {
	o := &redis.Options{Addr: addr}
	for _, opt := range opts {
		opt(o)
	}
	client := redis.NewClient(o)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type redisSlots struct {
	client *redis.Client
	prefix string
}

// NewRedis stores each slot under "<prefix>:<scope>:<key>" without expiry.
func NewRedis(client *redis.Client, prefix string) Slots {
	return &redisSlots{client: client, prefix: prefix}
}

func (r *redisSlots) key(scope, key string) string {
	var b strings.Builder
	b.Grow(len(r.prefix) + len(scope) + len(key) + 2)
	if r.prefix != "" {
		b.WriteString(r.prefix)
		b.WriteString(":")
	}
	b.WriteString(scope)
	b.WriteString(":")
	b.WriteString(key)
	return b.String()
}

func (r *redisSlots) Get(ctx context.Context, scope, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(scope, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *redisSlots) Put(ctx context.Context, scope, key string, value []byte) error {
	return r.client.Set(ctx, r.key(scope, key), value, 0).Err()
}
