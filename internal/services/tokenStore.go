package services

import (
	"context"
	"time"

	"github.com/arzan03/PaperBot/internal/cache"
)

// TokenStore remembers revoked access tokens until they would have expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration)
	Revoked(ctx context.Context, jti string) bool
}

type redisTokenStore struct {
	cache *cache.Client
}

// NewTokenStore keeps the blacklist in Redis. With Redis down or disabled
// revocation is best effort: logged out tokens stay valid until expiry.
func NewTokenStore(c *cache.Client) TokenStore {
	return &redisTokenStore{cache: c}
}

func revokedKey(jti string) string {
	return "revoked:access:" + jti
}

func (s *redisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) {
	if jti == "" || ttl <= 0 {
		return
	}
	_ = s.cache.Set(ctx, revokedKey(jti), []byte("1"), ttl)
}

func (s *redisTokenStore) Revoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	return s.cache.Exists(ctx, revokedKey(jti))
}
