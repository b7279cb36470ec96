package redisad

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flightwatch_web/internal/adapters/observability"
	"flightwatch_web/internal/domain"
)

// Limiter is a fixed-window submit counter keyed by client.
type Limiter struct {
	c      *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func New(addr, pass string, db, limit int, window time.Duration) *Limiter {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), limit, window)
}

func NewWithClient(c *redis.Client, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{c: c, limit: limit, window: window, prefix: "flightwatch:submit:"}
}

func (l *Limiter) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *Limiter) Close() error { return l.c.Close() }

// windowScript counts a hit and makes sure the key expires. A key left
// without a TTL gets one on the next hit instead of blocking forever.
var windowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if n == 1 or ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

func (l *Limiter) Allow(ctx context.Context, key string) (domain.Decision, error) {
	res, err := windowScript.Run(ctx, l.c, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		observability.ObserveThrottle("error")
		return domain.Decision{}, fmt.Errorf("redis window: %w", err)
	}
	if len(res) != 2 {
		observability.ObserveThrottle("error")
		return domain.Decision{}, fmt.Errorf("redis window: unexpected reply %v", res)
	}
	n, ttl := res[0], time.Duration(res[1])*time.Millisecond

	d := domain.Decision{
		Allowed:   n <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(n), 0),
		ResetIn:   ttl,
	}
	if d.Allowed {
		observability.ObserveThrottle("allow")
	} else {
		observability.ObserveThrottle("deny")
	}
	return d, nil
}
