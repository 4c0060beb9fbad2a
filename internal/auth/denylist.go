package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "auth:denylist:"

// Denylist tracks revoked token IDs in Redis until they expire naturally.
type Denylist struct {
	client *redis.Client
}

// NewDenylist constructs a denylist over the given client. A nil client
// disables revocation checks.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client}
}

// Revoke marks the token ID as revoked until its expiry.
func (d *Denylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if d == nil || d.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if d == nil || d.client == nil {
		return false, nil
	}
	err := d.client.Get(ctx, denylistPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
