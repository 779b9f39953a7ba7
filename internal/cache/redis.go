package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"pocket-assistant/internal/config"
)

// connectTimeout 启动时探测 Redis 的超时
const connectTimeout = 5 * time.Second

// RedisCache Redis 实现，多实例部署时共享黑名单和新闻摘要
type RedisCache struct {
	client *redis.Client
}

// redisOptions 由配置生成连接参数
func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
}

// NewRedisCache 连接 Redis，启动时 Ping 失败直接返回错误
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	opts := redisOptions(cfg.Redis)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}

	logrus.WithField("addr", opts.Addr).Info("Redis connected")
	return NewRedisCacheWithClient(client), nil
}

// NewRedisCacheWithClient 包装已有的客户端，测试中配合 miniredis 使用
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// BlacklistToken 黑名单键的 TTL 等于令牌剩余有效期，已过期的令牌不写入
func (c *RedisCache) BlacklistToken(ctx context.Context, tokenHash string, expireAt time.Time) error {
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, blacklistKeyPrefix+tokenHash, 1, ttl).Err()
}

// IsTokenBlacklisted Redis 不可用时按未拉黑处理并记录日志
func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, tokenHash string) bool {
	n, err := c.client.Exists(ctx, blacklistKeyPrefix+tokenHash).Result()
	if err != nil {
		logrus.WithError(err).Warn("check token blacklist failed")
		return false
	}
	return n > 0
}

// GetNews 读取新闻摘要，Key 不存在或出错都视为未命中
func (c *RedisCache) GetNews(ctx context.Context) (string, bool) {
	digest, err := c.client.Get(ctx, newsKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("read news cache failed")
		}
		return "", false
	}
	return digest, true
}

// SetNews ttl <= 0 时不缓存
func (c *RedisCache) SetNews(ctx context.Context, digest string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, newsKey, digest, ttl).Err()
}

// Ping 健康检查
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭连接池
func (c *RedisCache) Close() error {
	return c.client.Close()
}
