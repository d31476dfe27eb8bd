package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

const denyKeyPrefix = "denied_token:"

// RedisTokenStore keeps revoked session tokens in redis, keyed by hash,
// expiring when the token itself would have.
type RedisTokenStore struct {
	client *redis.Client
}

var _ ports.TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Deny(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, denyKeyPrefix+tokenHash, "1", ttl).Err(); err != nil {
		return domain.NewStoreError(err)
	}
	return nil
}

func (s *RedisTokenStore) IsDenied(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.client.Exists(ctx, denyKeyPrefix+tokenHash).Result()
	if err != nil {
		return false, domain.NewStoreError(err)
	}
	return n > 0, nil
}
