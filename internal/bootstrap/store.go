package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Cleo-11/OceanX/internal/admission"
	"github.com/Cleo-11/OceanX/internal/config"
)

// NewAdmissionStore returns the rate-limit counter store. With REDIS_ADDR set
// the counters live in redis and are shared by every instance; otherwise they
// are held in process. The returned client is nil for the in-memory store.
func NewAdmissionStore(ctx context.Context, cfg *config.Config) (admission.Store, *redis.Client, error) {
	if cfg.RedisAddr == "" {
		slog.Info(LogMsgAdmissionStoreMemory)
		return admission.NewMemoryStore(admission.DefaultShardCount, admission.DefaultMaxKeys, admission.DefaultWindow), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
	}

	slog.Info(LogMsgAdmissionStoreRedis, "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return admission.NewRedisStore(client), client, nil
}
