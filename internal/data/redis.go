package data

import (
	"github.com/go-redis/redis/v8"

	"github.com/roguepikachu/snipshare/internal/config"
)

// NewRedisClient returns a client for cfg.RedisAddr. It does not dial until first use.
func NewRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
}
