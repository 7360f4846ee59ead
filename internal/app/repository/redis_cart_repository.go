package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisCartRepository stores cart snapshots in Redis, one key per
// session. Snapshots are not expired: the cart lives for the lifetime
// of the shopper's session cookie, not a single page view.
type RedisCartRepository struct {
	client *redis.Client
}

func NewRedisCartRepository(client *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{client: client}
}

func (r *RedisCartRepository) key(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (r *RedisCartRepository) Load(ctx context.Context, sessionID string) (model.Cart, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err == redis.Nil {
		return model.Cart{}, nil
	}
	if err != nil {
		return model.Cart{}, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		logger.Warn("Cart snapshot unparsable, starting empty", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return model.Cart{}, nil
	}
	return cart, nil
}

func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, cart model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart snapshot: %w", err)
	}
	return nil
}

func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
