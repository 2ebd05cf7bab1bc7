package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Client owns the go-redis connection pool shared by the denylist and the
// login rate limiter.
type Client struct {
	rdb  *goredis.Client
	addr string
}

// New does not dial; the first command (normally Ping) does.
func New(addr, password string, db int) *Client {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  pingTimeout,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     20,
		MinIdleConns: 2,
	})
	return &Client{rdb: rdb, addr: addr}
}

// Ping backs /readyz as well as bootstrap, so it never waits longer than
// pingTimeout regardless of the caller's deadline.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

func (c *Client) Addr() string { return c.addr }

func (c *Client) Close() error {
	return c.rdb.Close()
}
