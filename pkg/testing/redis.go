package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// GetRedisClientAndCtx returns a redis client pointed at a locally running
// redis instance; tests using it are skipped when redis is not reachable
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(redisHost, "6379"),
		Password: os.Getenv("REDIS_PASS"),
		DB:       0, // use default DB
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		t.Skipf("redis not reachable on %s, skipping: %s", redisHost, err)
	}
	require.NoError(t, rdb.FlushDB(ctx).Err())

	return ctx, rdb
}
