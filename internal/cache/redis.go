package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eventify/internal/models"

	"github.com/redis/go-redis/v9"
)

const vendorListTTL = 60 * time.Second

// RedisClient caches read-heavy vendor directory queries
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: rdb}, nil
}

func vendorListKey(city, category string) string {
	return fmt.Sprintf("vendors:%s:%s", city, category)
}

// GetVendorList returns a cached directory page, or redis.Nil-backed miss
func (r *RedisClient) GetVendorList(ctx context.Context, city, category string) ([]models.VendorView, error) {
	raw, err := r.client.Get(ctx, vendorListKey(city, category)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("vendor list not cached")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	var vendors []models.VendorView
	if err := json.Unmarshal([]byte(raw), &vendors); err != nil {
		return nil, fmt.Errorf("invalid cached vendor list: %w", err)
	}

	return vendors, nil
}

// SetVendorList stores a directory page with a short TTL
func (r *RedisClient) SetVendorList(ctx context.Context, city, category string, vendors []models.VendorView) error {
	raw, err := json.Marshal(vendors)
	if err != nil {
		return fmt.Errorf("failed to marshal vendor list: %w", err)
	}

	return r.client.Set(ctx, vendorListKey(city, category), raw, vendorListTTL).Err()
}

// InvalidateVendorLists drops every cached directory page, used after
// assignment changes shift the per-vendor counts
func (r *RedisClient) InvalidateVendorLists(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "vendors:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cache key: %w", err)
		}
	}
	return iter.Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
