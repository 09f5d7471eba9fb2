package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/cache"
	"github.com/swapkaro/swapkaro-backend/internal/config"
)

// ConnectRedis opens the token blacklist and OTP cooldown store.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*cache.CacheService, error) {
	store := cache.NewCacheService(cache.CacheConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logrus.WithField("addr", cfg.Addr()).Info("Redis connection established successfully")
	return store, nil
}
