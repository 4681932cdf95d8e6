// internal/workers/pipeline/dispatch-suggestions/store_redis.go
package dispatchsuggestions

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dining-concierge/internal/models"
)

// RedisStore reads restaurant hashes stored under <prefix><businessID> with
// fields name and address.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

func (s *RedisStore) Lookup(ctx context.Context, businessID string) (*models.RestaurantDetail, error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+businessID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lookup %s: %w", businessID, err)
	}
	if len(fields) == 0 {
		return nil, ErrRestaurantNotFound
	}
	return &models.RestaurantDetail{
		BusinessID: businessID,
		Name:       fields["name"],
		Address:    fields["address"],
	}, nil
}
