package redisstore

import (
	"context"
	"fmt"
	"time"

	"goldprice/internal/application"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ application.Locker = (*Lock)(nil)

// release deletes the key only while it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-writer lease shared by every host pointing at the same Redis.
type Lock struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
	Retry  time.Duration
}

func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{Client: client, Key: key, TTL: ttl, Retry: 100 * time.Millisecond}
}

func (l *Lock) Lock(ctx context.Context) (func() error, error) {
	token := uuid.NewString()
	for {
		ok, err := l.Client.SetNX(ctx, l.Key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", l.Key, err)
		}
		if ok {
			return func() error {
				return release.Run(context.Background(), l.Client, []string{l.Key}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis lock %s: %w", l.Key, ctx.Err())
		case <-time.After(l.Retry):
		}
	}
}
