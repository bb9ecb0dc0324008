package redis

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/rbac-admin/internal/auth"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:revoked:"

type TokenStore struct {
	client *goredis.Client
}

func NewTokenStore(client *goredis.Client) auth.TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+jti, "1", ttl).Err()
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+jti).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
