// Package cache 提供需要快速访问的数据的缓存
// 包括 JWT 黑名单和新闻摘要，Redis 不可用时可退化为进程内缓存
package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"pocket-assistant/internal/config"
)

// Cache 业务缓存接口
type Cache interface {
	// BlacklistToken 将 Token 加入黑名单，直到其原始过期时间
	BlacklistToken(ctx context.Context, tokenHash string, expireAt time.Time) error
	// IsTokenBlacklisted 检查 Token 是否在黑名单中
	IsTokenBlacklisted(ctx context.Context, tokenHash string) bool

	// GetNews 读取缓存的新闻摘要
	GetNews(ctx context.Context) (string, bool)
	// SetNews 缓存新闻摘要，ttl <= 0 时不缓存
	SetNews(ctx context.Context, digest string, ttl time.Duration) error

	Ping(ctx context.Context) error
	Close() error
}

// New 根据配置创建缓存
// redis.enabled 为 false 时使用进程内缓存
func New(cfg *config.Config) (Cache, error) {
	if !cfg.Redis.Enabled {
		logrus.Warn("Redis disabled, using in-memory cache")
		return NewMemoryCache(), nil
	}
	return NewRedisCache(cfg)
}

const (
	blacklistKeyPrefix = "jwt:blacklist:"
	newsKey            = "news:digest"
)
