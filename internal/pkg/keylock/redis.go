package keylock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yigit/schoolrecords/internal/pkg/logger"
)

const (
	defaultLockTTL    = 10 * time.Second
	defaultRetryDelay = 25 * time.Millisecond
	lockPrefix        = "lock:"
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript pushes the expiry forward only while the lock carries our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX on a shared Redis.
// The expiry is extended every ttl/3 while the lock is held, so a crashed
// holder loses the lock after at most ttl.
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
}

// NewRedisLocker creates a RedisLocker. A non-positive ttl falls back to 10s.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: defaultRetryDelay,
	}
}

// Lock polls Redis until the key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryDelay)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("acquire lock %s: %w", key, ctxErr)
			}
			logger.Error().Err(err).Str("key", key).Msg("Error acquiring redis lock")
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(redisKey, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, redisKey, token, stop, done) })
	}, nil
}

func (l *RedisLocker) release(key, redisKey, token string, stop, done chan struct{}) {
	close(stop)
	<-done

	// The caller's ctx may already be cancelled; release on a fresh one.
	releaseCtx, cancel := context.WithTimeout(context.Background(), l.ttl)
	defer cancel()
	if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to release redis lock")
	}
}

// keepAlive extends the lock until stop is closed or the token is no longer ours.
func (l *RedisLocker) keepAlive(redisKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), l.ttl/3)
		extended, err := extendScript.Run(ctx, l.client, []string{redisKey}, token, l.ttl.Milliseconds()).Int()
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("key", redisKey).Msg("Failed to extend redis lock")
			continue
		}
		if extended == 0 {
			logger.Warn().Str("key", redisKey).Msg("Redis lock expired while held")
			return
		}
	}
}
