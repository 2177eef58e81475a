package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

const revokedKeyPrefix = "revoked_token:"

// RedisRevocationStore keeps signed-out tokens until they would have expired
// anyway. Only a digest of the token is stored.
type RedisRevocationStore struct {
	rdb *redis.Client
	now func() time.Time
}

var _ domain.TokenRevocationStore = (*RedisRevocationStore)(nil)

func NewRedisRevocationStore(rdb *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{rdb: rdb, now: time.Now}
}

// tokenDigest keeps raw tokens out of redis keys.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func revokedKey(token string) string {
	return revokedKeyPrefix + tokenDigest(token)
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, token string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, revokedKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("cache: failed to check revocation: %w", err)
	}
	return n > 0, nil
}
