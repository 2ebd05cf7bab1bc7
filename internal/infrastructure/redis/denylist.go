package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

const denylistPrefix = "denylist:access_token:"

// TokenDenylist stores revoked access token ids until the token expires.
type TokenDenylist struct {
	rdb *goredis.Client
	now func() time.Time
}

func NewTokenDenylist(c *Client) *TokenDenylist {
	return &TokenDenylist{rdb: c.rdb, now: time.Now}
}

func denylistKey(jti string) string {
	return denylistPrefix + jti
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := exp.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, denylistKey(jti), "revoked", ttl).Err(); err != nil {
		return domain.ErrCacheUnavailable(err)
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.rdb.Get(ctx, denylistKey(jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, goredis.Nil):
		return false, nil
	default:
		return false, domain.ErrCacheUnavailable(err)
	}
}
