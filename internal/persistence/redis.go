package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/repository"
)

// Redis wraps the go-redis client together with the token slot layout it serves.
type Redis struct {
	Client    *redis.Client
	KeyPrefix string
	TokenTTL  time.Duration
}

// NewRedis connects to Redis using the provided configuration. An unreachable
// server is logged, not fatal; slot operations will surface the error.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	r := &Redis{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		KeyPrefix: cfg.KeyPrefix,
		TokenTTL:  cfg.TokenTTL(),
	}

	log := logger.With(
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("key_prefix", r.KeyPrefix),
		zap.Duration("token_ttl", r.TokenTTL),
	)
	if err := r.Ping(ctx); err != nil {
		log.Warn("unable to reach redis", zap.Error(err))
	} else {
		log.Info("connected to redis")
	}
	return r
}

// SlotStore returns the token slot store laid out under KeyPrefix.
func (r *Redis) SlotStore() *repository.RedisSlotStore {
	return repository.NewRedisSlotStore(r.Client, r.KeyPrefix, r.TokenTTL)
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// Configured reports whether a client was created.
func (r *Redis) Configured() bool {
	return r != nil && r.Client != nil
}
