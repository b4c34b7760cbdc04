package cache

import (
	"sync"
	"time"
)

// Cache 上游数据TTL缓存。
// 每个条目携带独立的过期时间和相对大小权重，过期检查在读取时进行，
// 没有后台清理协程。并发未命中允许重复回源（上游均为幂等读）。
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time // 可注入时钟，便于测试
}

type entry struct {
	value      interface{}
	expiresAt  time.Time
	sizeWeight int64
}

// Stats 缓存统计信息
type Stats struct {
	TotalEntries   int   `json:"total_entries"`
	FreshEntries   int   `json:"fresh_entries"`
	ExpiredEntries int   `json:"expired_entries"`
	TotalWeight    int64 `json:"total_weight"`
}

// New 创建缓存
func New() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// GetOrCreate 命中且未过期时直接返回缓存值；否则调用producer回源，
// 以 now+ttl 作为过期时间写入后返回。producer的错误不会被缓存。
func (c *Cache) GetOrCreate(key string, ttl time.Duration, sizeWeight int64, producer func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}

	// 未命中或已过期，回源。不加锁，允许同key并发重复回源。
	value, err := producer()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{
		value:      value,
		expiresAt:  c.now().Add(ttl),
		sizeWeight: sizeWeight,
	}
	c.mu.Unlock()

	return value, nil
}

// Clear 无条件清空所有条目
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// GetStats 返回缓存统计信息
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	stats := Stats{TotalEntries: len(c.entries)}
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			stats.FreshEntries++
		} else {
			stats.ExpiredEntries++
		}
		stats.TotalWeight += e.sizeWeight
	}

	return stats
}

// get 读取未过期的条目，过期条目顺手删除
func (c *Cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	if exists && c.now().Before(e.expiresAt) {
		c.mu.RUnlock()
		return e.value, true
	}
	c.mu.RUnlock()

	if exists {
		c.mu.Lock()
		// 重新检查，条目可能已被并发回源刷新
		if e2, ok := c.entries[key]; ok && !c.now().Before(e2.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	return nil, false
}

// GetOrCreateTyped 带类型参数的GetOrCreate包装
func GetOrCreateTyped[T any](c *Cache, key string, ttl time.Duration, sizeWeight int64, producer func() (T, error)) (T, error) {
	value, err := c.GetOrCreate(key, ttl, sizeWeight, func() (interface{}, error) {
		return producer()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}
