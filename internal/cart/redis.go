package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix is prepended to the cart id to build the redis key
	KeyPrefix = "cart:"
	// DefaultTTL is how long an untouched cart survives
	DefaultTTL = 30 * 24 * time.Hour
)

// RedisClient is the subset of go-redis used by the cart repository
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRepository stores each cart as a single JSON value
type RedisRepository struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisRepository creates a redis backed cart repository
func NewRedisRepository(client RedisClient, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepository{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return KeyPrefix + cartID
}

// Load reads and decodes the cart. A missing key is an empty cart.
func (r *RedisRepository) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	data, err := r.client.Get(ctx, cartKey(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.CartItem{}, nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Save writes the whole cart and refreshes its TTL
func (r *RedisRepository) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(cartID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear deletes the cart key
func (r *RedisRepository) Clear(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
