package cache

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
)

const (
	defaultKeyPrefix = "usopen:"
	pingTimeout      = 5 * time.Second
)

type RedisConfig struct {
	URL       string
	KeyPrefix string
	TTL       time.Duration
	Logger    *logging.Logger
	Observe   func(name string, hit bool)
}

// RedisBytes is a byte cache shared by every replica. Entries expire via the
// server-side TTL; read and write failures behave as misses.
type RedisBytes struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	logger  *logging.Logger
	observe func(name string, hit bool)
}

func NewRedisBytes(ctx context.Context, cfg RedisConfig) (*RedisBytes, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return newRedisBytes(client, cfg), nil
}

func newRedisBytes(client *redis.Client, cfg RedisConfig) *RedisBytes {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisBytes{
		client:  client,
		prefix:  prefix,
		ttl:     cfg.TTL,
		logger:  logger,
		observe: cfg.Observe,
	}
}

func (c *RedisBytes) key(key string) string {
	return c.prefix + key
}

func (c *RedisBytes) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	hit := err == nil
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "redis cache get failed", "key", key, "error", err)
	}
	if c.observe != nil {
		c.observe("scoreboard_redis", hit)
	}
	if !hit {
		return nil, false
	}
	return raw, true
}

func (c *RedisBytes) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "redis cache set failed", "key", key, "error", err)
	}
}

func (c *RedisBytes) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisBytes) Close() error {
	return c.client.Close()
}
