package redis

import (
	"context"
	"fmt"
	"time"

	"alto-client/configs"

	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient creates the redis client from config and checks it is reachable
func NewRedisClient(cfg configs.Redis) (*redis.Client, error) {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s:%d: %w", host, port, err)
	}
	return client, nil
}
