package kv

import (
	"context"
	"errors"
	"time"

	goRedis "github.com/redis/go-redis/v9"
)

// Redis stores values as plain strings without expiry.
type Redis struct {
	client *goRedis.Client
	prefix string
}

// OpenRedis parses url, connects and pings before returning.
func OpenRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := goRedis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return NewRedis(client, prefix), nil
}

func NewRedis(client *goRedis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, goRedis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
