package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const memoryCacheSize = 4096

// MemoryCache 进程内缓存实现
// 只适合单实例部署，重启后数据丢失
type MemoryCache struct {
	mu        sync.Mutex
	blacklist map[string]time.Time
	news      *expirable.LRU[string, string]
	newsTTL   time.Duration
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		blacklist: make(map[string]time.Time),
	}
}

// BlacklistToken 将 Token 加入黑名单
func (c *MemoryCache) BlacklistToken(_ context.Context, tokenHash string, expireAt time.Time) error {
	if !time.Now().Before(expireAt) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	c.blacklist[tokenHash] = expireAt
	return nil
}

// IsTokenBlacklisted 检查 Token 是否在黑名单中
func (c *MemoryCache) IsTokenBlacklisted(_ context.Context, tokenHash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	expireAt, ok := c.blacklist[tokenHash]
	return ok && time.Now().Before(expireAt)
}

// pruneLocked 清理已过期的黑名单项，调用方需持有锁
func (c *MemoryCache) pruneLocked() {
	now := time.Now()
	for hash, expireAt := range c.blacklist {
		if !now.Before(expireAt) {
			delete(c.blacklist, hash)
		}
	}
}

// GetNews 读取缓存的新闻摘要
func (c *MemoryCache) GetNews(_ context.Context) (string, bool) {
	c.mu.Lock()
	news := c.news
	c.mu.Unlock()

	if news == nil {
		return "", false
	}
	return news.Get(newsKey)
}

// SetNews 缓存新闻摘要
// expirable.LRU 的 TTL 在创建时固定，TTL 变化时重建
func (c *MemoryCache) SetNews(_ context.Context, digest string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	if c.news == nil || c.newsTTL != ttl {
		c.news = expirable.NewLRU[string, string](memoryCacheSize, nil, ttl)
		c.newsTTL = ttl
	}
	news := c.news
	c.mu.Unlock()

	news.Add(newsKey, digest)
	return nil
}

// Ping 进程内缓存始终可用
func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

// Close 释放缓存内容
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.blacklist = make(map[string]time.Time)
	if c.news != nil {
		c.news.Purge()
	}
	return nil
}
