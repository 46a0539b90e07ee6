// ABOUTME: Redis-backed cache store for sharing cached responses between machines
// ABOUTME: Entries are JSON documents under a key prefix with native TTLs

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cache keys inside a shared Redis
const DefaultRedisPrefix = "thecheck:cache:"

// RedisOptions configures NewRedis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis is a Store backed by a Redis server
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis connects and pings the server
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, mapRedisClosed(err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Corrupt entries are treated as misses and removed
		r.client.Del(ctx, r.prefix+key)
		return Entry{}, false, nil
	}
	if e.Expired(r.now()) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, e Entry) error {
	ttl := e.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return mapRedisClosed(r.client.Set(ctx, r.prefix+key, data, ttl).Err())
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return mapRedisClosed(r.client.Del(ctx, full...).Err())
}

func (r *Redis) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return mapRedisClosed(err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return mapRedisClosed(err)
	}
	if len(batch) > 0 {
		return mapRedisClosed(r.client.Del(ctx, batch...).Err())
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func mapRedisClosed(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return err
}
