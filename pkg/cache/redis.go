package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/result-magic-api/pkg/config"
)

// NewRedis returns a configured Redis client.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

const keyPrefix = "result-magic"

// Key joins parts under the service namespace, e.g. Key("rankings", schoolID, resultSetID).
func Key(parts ...string) string {
	return strings.Join(append([]string{keyPrefix}, parts...), ":")
}

// Pattern matches every key below the given parts.
func Pattern(parts ...string) string {
	return Key(parts...) + ":*"
}
