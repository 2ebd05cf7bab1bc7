package memory

import (
	"context"
	"sync"
	"time"
)

// TokenDenylist is the in-process fallback when Redis is not configured.
// Expired entries are dropped lazily on write.
type TokenDenylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, exp time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, until := range d.revoked {
		if !until.After(now) {
			delete(d.revoked, k)
		}
	}
	if exp.After(now) {
		d.revoked[jti] = exp
	}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	until, ok := d.revoked[jti]
	return ok && until.After(d.now()), nil
}
