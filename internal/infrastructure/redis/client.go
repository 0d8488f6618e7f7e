package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/onboarding-service/internal/domain"
)

const (
	pingTimeout = 2 * time.Second
	dialTimeout = 2 * time.Second
	opTimeout   = 500 * time.Millisecond
)

// Client is the connection shared by the session store and the fixed-window
// limiter. Session lookups sit on the request path, so operations get short
// read/write deadlines.
type Client struct {
	rdb *goredis.Client
}

func New(addr, password string, db int) *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  dialTimeout,
			ReadTimeout:  opTimeout,
			WriteTimeout: opTimeout,
		}),
	}
}

// Ping fails with redis_unavailable. Bootstrap treats that as "run with
// in-memory sessions".
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return domain.ErrRedisUnavailable(errNotConfigured)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return domain.ErrRedisUnavailable(err)
	}
	return nil
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
