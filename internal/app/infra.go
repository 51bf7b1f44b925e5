package app

import (
	"context"

	"oauth-bridge/internal/config"
	"oauth-bridge/internal/logger"
	"oauth-bridge/internal/redis"
)

type Infra struct {
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	redisClient, err := redis.New(ctx, redis.Options{
		Addr:     cfg.StoreAddr(),
		Password: cfg.StorePassword,
		DB:       cfg.StoreDB,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("redis ready", map[string]any{
		"addr": cfg.StoreAddr(),
	})

	return &Infra{
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	return i.Redis.Close()
}
