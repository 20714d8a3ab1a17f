package cache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"resume-sync/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis is a best-effort cache. When the server is unreachable every call
// degrades to a miss so callers never depend on Redis being up.
type Redis struct {
	client *redis.Client
	logger *logrus.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger *logrus.Logger) *Redis {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: strings.TrimSpace(cfg.Password),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("redis unavailable, bypassing cache")
		}
		_ = client.Close()
		return &Redis{client: nil, logger: logger}
	}

	return &Redis{client: client, logger: logger}
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r == nil || r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.WithError(err).Warn("redis unavailable, bypassing cache")
	}
}

func (r *Redis) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.client == nil {
		return nil, false
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.warnUnavailableOnce(err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Set(ctx, key, val, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if r == nil || r.client == nil {
		return
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnUnavailableOnce(err)
	}
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
