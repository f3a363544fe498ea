package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRoleCache is a shared role cache backed by redis, used when more
// than one server instance is running
type RedisRoleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisOptions configures the redis role cache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisRoleCache creates a redis-backed role cache
func NewRedisRoleCache(opts RedisOptions, logger *zap.Logger) (*RedisRoleCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &RedisRoleCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func roleKey(userID string) string {
	return "role:" + userID
}

// Get implements RoleCache
func (c *RedisRoleCache) Get(ctx context.Context, userID string) (Role, bool) {
	val, err := c.client.Get(ctx, roleKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Role cache read failed", zap.Error(err))
		}
		return "", false
	}

	role := Role(val)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Set implements RoleCache
func (c *RedisRoleCache) Set(ctx context.Context, userID string, role Role) {
	if err := c.client.Set(ctx, roleKey(userID), string(role), c.ttl).Err(); err != nil {
		c.logger.Warn("Role cache write failed", zap.Error(err))
	}
}

// Invalidate implements RoleCache
func (c *RedisRoleCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, roleKey(userID)).Err(); err != nil {
		c.logger.Warn("Role cache invalidation failed", zap.Error(err))
	}
}

// Close closes the redis connection
func (c *RedisRoleCache) Close() error {
	return c.client.Close()
}
