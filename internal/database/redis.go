package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/logger"
)

// NewRedisClient connects to redis. An empty URL returns a nil client, which
// every redis-backed component treats as "feature disabled".
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		logger.Logger.Info("redis not configured; cache, token blacklist and rate limiting disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Logger.Info("connected to redis", zap.String("addr", opts.Addr))
	return client, nil
}
