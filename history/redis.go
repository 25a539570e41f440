package history

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each key as a plain redis string.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to the server described by opts and pings it.
func OpenRedis(ctx context.Context, opts *redis.Options, prefix string) (*RedisBackend, error) {
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "could not reach redis at %s", opts.Addr)
	}

	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not get %s", key)
	}
	return value, nil
}

func (b *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	err := b.client.Set(ctx, b.prefix+key, value, 0).Err()
	return errors.Wrapf(err, "could not put %s", key)
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
