package redis

import (
	"context"
	"sync"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
)

var (
	client *redisv9.Client
	once   sync.Once
)

func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr:                  config.GetRedisAddr(),
			ContextTimeoutEnabled: true,
		})
	})
	return client
}

// Ping checks that the configured server is reachable.
func Ping(ctx context.Context) error {
	return GetClient().Ping(ctx).Err()
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	if client != nil {
		_ = client.Close()
	}
	once = sync.Once{}
	client = nil
}
