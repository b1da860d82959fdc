package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DialCheckTimeout bounds the startup ping
const DialCheckTimeout = 5 * time.Second

var client *redis.Client

var pingClient = func(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// Init connects to url and installs the shared client. A password argument overrides one in
// the URL. On ping failure no client is installed.
func Init(url, password string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), DialCheckTimeout)
	defer cancel()

	if err := pingClient(ctx, c); err != nil {
		_ = c.Close()
		return fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	client = c
	return nil
}

// SetClient replaces the shared client. Tests point it at miniredis.
func SetClient(c *redis.Client) {
	client = c
}

func GetClient() *redis.Client {
	return client
}

// Ready reports whether a client is installed
func Ready() bool {
	return client != nil
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return client.Set(ctx, key, value, expiration).Err()
}

func Get(ctx context.Context, key string) (string, error) {
	return client.Get(ctx, key).Result()
}

// GetDel reads and removes key in one round trip
func GetDel(ctx context.Context, key string) (string, error) {
	return client.GetDel(ctx, key).Result()
}

func Del(ctx context.Context, key string) error {
	return client.Del(ctx, key).Err()
}

// SetNX writes key only when absent and reports whether it did
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, expiration).Result()
}
