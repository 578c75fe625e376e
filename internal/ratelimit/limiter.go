package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request under key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Bucket struct {
	RefillPerSec int
	Burst        int
	// TTL is how long an idle key is kept.
	TTL time.Duration
}

func (b Bucket) normalized() Bucket {
	if b.RefillPerSec <= 0 {
		b.RefillPerSec = 1
	}
	if b.Burst <= 0 {
		b.Burst = 1
	}
	if b.TTL <= 0 {
		b.TTL = 2 * time.Minute
	}
	return b
}

// New returns a Redis-backed limiter when rdb is set, otherwise an
// in-process one.
func New(rdb *redis.Client, bucket Bucket, logger *zap.Logger) Limiter {
	if rdb == nil {
		return NewLocal(bucket)
	}
	return NewRedis(rdb, bucket, logger)
}

// tokenBucket keeps tokens and the last refill time in one hash so a
// check is a single atomic round trip.
var tokenBucket = redis.NewScript(`
local key   = KEYS[1]
local now   = tonumber(ARGV[1])
local rate  = tonumber(ARGV[2])
local burst = tonumber(ARGV[3])
local ttl   = tonumber(ARGV[4])

local last_ms = tonumber(redis.call('HGET', key, 'ts') or now)
local tokens  = tonumber(redis.call('HGET', key, 'tok') or burst)

if now > last_ms then
  local delta = (now - last_ms) / 1000.0
  tokens = math.min(burst, tokens + (delta * rate))
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', key, 'tok', tokens, 'ts', now)
redis.call('EXPIRE', key, ttl)

return allowed
`)

type RedisLimiter struct {
	rdb    *redis.Client
	bucket Bucket
	logger *zap.Logger
	now    func() time.Time
}

func NewRedis(rdb *redis.Client, bucket Bucket, logger *zap.Logger) *RedisLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{rdb: rdb, bucket: bucket.normalized(), logger: logger, now: time.Now}
}

// Allow fails open: a Redis error lets the request through and is returned
// for the caller to log.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := tokenBucket.Run(ctx, l.rdb, []string{"rl:" + key},
		l.now().UnixMilli(),
		l.bucket.RefillPerSec,
		l.bucket.Burst,
		int(l.bucket.TTL.Seconds()),
	).Int64()
	if err != nil {
		l.logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
		return true, err
	}
	return res == 1, nil
}

type LocalLimiter struct {
	mu       sync.Mutex
	bucket   Bucket
	limiters map[string]*localEntry
	now      func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocal(bucket Bucket) *LocalLimiter {
	return &LocalLimiter{
		bucket:   bucket.normalized(),
		limiters: map[string]*localEntry{},
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(now)
	entry, ok := l.limiters[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(rate.Limit(l.bucket.RefillPerSec), l.bucket.Burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1), nil
}

func (l *LocalLimiter) evict(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.bucket.TTL {
			delete(l.limiters, key)
		}
	}
}
