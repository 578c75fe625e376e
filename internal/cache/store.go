package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"blockchainspace/internal/config"
)

// Store is a byte-oriented TTL cache. A ttl <= 0 keeps the entry until it
// is overwritten or deleted.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NewRedisClient returns nil when no address is configured.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// New picks Redis when a client is given and falls back to process memory.
func New(client *redis.Client, prefix string) Store {
	if client == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(client, prefix)
}
