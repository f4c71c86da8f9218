package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/appointment-assistant/internal/appointment"
	appconfig "github.com/wolfman30/appointment-assistant/internal/config"
	"github.com/wolfman30/appointment-assistant/internal/session"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore returns the Redis store when SESSION_STORE=redis and the
// server answers, otherwise the in-process store.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (appointment.SessionStore, func() error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SessionStore == "redis" {
		if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
			logger.Info("session store ready", "backend", "redis", "ttl", cfg.SessionTTL.String())
			return session.NewRedisStore(client, cfg.SessionTTL, nil), client.Close
		}
		logger.Warn("falling back to in-memory sessions")
	} else if cfg.SessionStore != "" && cfg.SessionStore != "memory" {
		logger.Warn("unknown session store; using memory", "session_store", cfg.SessionStore)
	}
	return session.NewMemoryStore(cfg.SessionTTL), nil
}
