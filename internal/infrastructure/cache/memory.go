package cache

import (
	"context"
	"sync"
	"time"

	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryCache 行程內快取，Redis 未啟用時的後備實作
// TTL 過期加上超量時的 LRU 淘汰
type MemoryCache struct {
	cfg   config.CacheConfig
	mu    sync.RWMutex
	store map[string]memoryEntry
	stats memoryStats
	stop  chan struct{}
}

// memoryEntry 快取條目
type memoryEntry struct {
	value       []byte
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// memoryStats 快取統計
type memoryStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryCache 創建行程內快取
func NewMemoryCache(cfg config.CacheConfig) *MemoryCache {
	m := &MemoryCache{
		cfg:   cfg,
		store: make(map[string]memoryEntry),
		stop:  make(chan struct{}),
	}

	// 啟動清理過期快取的協程
	go m.startCleanup()

	common.LogInfo("行程內快取已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return m
}

// Get 獲取快取值
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return nil, ErrCacheMiss
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("memory", key)
		return nil, ErrCacheMiss
	}

	// 更新訪問統計
	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++

	common.LogCacheHit("memory", key)
	return entry.value, nil
}

// Set 設置快取值
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 檢查快取大小
	if len(m.store) >= m.cfg.MaxSize {
		// 先清理過期項目
		evicted := m.cleanupLocked()
		common.LogDebug("快取清理執行", zap.Int("清理數量", evicted))

		// 如果仍然超過大小限制，執行 LRU 淘汰
		for len(m.store) >= m.cfg.MaxSize {
			if !m.evictLRULocked() {
				break
			}
		}
	}

	now := time.Now()
	m.store[key] = memoryEntry{
		value:       value,
		expiresAt:   now.Add(m.cfg.TTL),
		createdAt:   now,
		lastAccess:  now,
		accessCount: 0,
	}

	return nil
}

// Delete 刪除快取值
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

// startCleanup 啟動清理過期快取的協程
func (m *MemoryCache) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanupLocked()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

// cleanupLocked 清理過期的快取，呼叫端須持有寫鎖
func (m *MemoryCache) cleanupLocked() int {
	now := time.Now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	return count
}

// evictLRULocked 淘汰最少使用的條目，呼叫端須持有寫鎖
func (m *MemoryCache) evictLRULocked() bool {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	// 找到最少訪問的項目
	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey == "" {
		return false
	}

	delete(m.store, oldestKey)
	m.stats.evictions++
	common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	return true
}

// Stats 獲取快取統計信息
func (m *MemoryCache) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.cfg.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 關閉快取並停止清理協程
func (m *MemoryCache) Close() error {
	close(m.stop)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]memoryEntry)
	common.LogInfo("行程內快取已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
