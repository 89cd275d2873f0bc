package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func TestRedisLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	must.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisLimiter(client, "kinddraw:rate_limit:", "checkout", 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, "203.0.113.7")
		must.NoError(t, err)
		should.True(t, d.Allowed)
	}

	d, err := l.Allow(ctx, "203.0.113.7")
	must.NoError(t, err)
	should.False(t, d.Allowed)
	should.True(t, d.RetryAfter > 0 && d.RetryAfter <= time.Minute)
	should.True(t, mr.Exists("kinddraw:rate_limit:checkout:203.0.113.7"))

	mr.FastForward(time.Minute)
	d, err = l.Allow(ctx, "203.0.113.7")
	must.NoError(t, err)
	should.True(t, d.Allowed)
}

func TestRedisLimiterDisabled(t *testing.T) {
	l := NewRedisLimiter(nil, "", "comments", 1, time.Minute)
	d, err := l.Allow(context.Background(), "203.0.113.7")
	must.NoError(t, err)
	should.True(t, d.Allowed)
}
