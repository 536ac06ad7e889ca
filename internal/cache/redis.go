package cache

import (
	"context"
	"time"

	"github.com/chrischiuowo/space-room-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is the shared Redis client. It stays nil when Redis is unreachable
// and every helper degrades to a pass-through.
var Client *redis.Client

// InitRedis connects the shared client to the given address
func InitRedis(addr string) {
	Client = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn("redis unreachable, continuing without cache", zap.Error(err))
		Client = nil
	} else {
		logger.Logger.Info("redis connected", zap.String("addr", addr))
	}
}
