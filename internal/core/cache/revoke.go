package cache

import (
	"context"
	"time"
)

const revokedPrefix = "token:revoked:"

// Revocations stores logged-out token ids until their natural expiry.
type Revocations struct{ c *Cache }

func NewRevocations(c *Cache) *Revocations { return &Revocations{c: c} }

func (r *Revocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 || jti == "" {
		return nil
	}
	return r.c.RDB.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.c.RDB.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
