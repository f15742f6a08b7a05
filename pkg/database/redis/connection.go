package redis

import (
	"fmt"

	redisV9 "github.com/redis/go-redis/v9"

	"github.com/huynhanx03/go-fifo/pkg/settings"
)

// NewConnection creates and returns a new Redis client
func NewConnection(cfg *settings.Redis) (*RedisEngine, error) {
	engine := &RedisEngine{
		config: cfg,
	}

	if err := engine.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return engine, nil
}

// NewFromClient wraps an existing client. cfg may be nil.
func NewFromClient(client *redisV9.Client, cfg *settings.Redis) *RedisEngine {
	if cfg == nil {
		cfg = &settings.Redis{}
	}
	engine := &RedisEngine{client: client, config: cfg}
	engine.setDefaultConfig()
	return engine
}
