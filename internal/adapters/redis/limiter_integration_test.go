//go:build integration

package redisad_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	redisad "flightwatch_web/internal/adapters/redis"
)

func TestLimiter_RealRedis(t *testing.T) {
	// Start isolated Redis; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	c := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = c.Close() })

	if err := pool.Retry(func() error { return c.Ping(context.Background()).Err() }); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	l := redisad.NewWithClient(c, 2, 2*time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if d, err := l.Allow(ctx, "it"); err != nil || !d.Allowed {
			t.Fatalf("allow #%d: %+v %v", i+1, d, err)
		}
	}
	if d, err := l.Allow(ctx, "it"); err != nil || d.Allowed {
		t.Fatalf("expected deny: %+v %v", d, err)
	}

	time.Sleep(2100 * time.Millisecond)
	if d, err := l.Allow(ctx, "it"); err != nil || !d.Allowed {
		t.Fatalf("expected allow after window: %+v %v", d, err)
	}
}
