package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList looks revoked token ids up under "<prefix>:<jti>".
type RevocationList struct {
	Redis  *redis.Client
	Prefix string
}

func NewRevocationList(rdb *redis.Client, prefix string) *RevocationList {
	return &RevocationList{Redis: rdb, Prefix: prefix}
}

func (r *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.Redis.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis command failed: %w", err)
	}
	return exists == 1, nil
}

// Revoke marks jti as revoked until the token would have expired anyway.
func (r *RevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.Redis.Set(ctx, r.key(jti), "1", ttl).Err()
}

func (r *RevocationList) key(jti string) string {
	return r.Prefix + ":" + jti
}
