package cache

import (
	"context"
	"fmt"

	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache 以 Redis 為後端的快取實作
type RedisCache struct {
	client *redis.Client
	cfg    config.CacheConfig
}

// NewRedisCache 建立 Redis 快取並測試連線
func NewRedisCache(redisCfg config.RedisConfig, cacheCfg config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線",
		zap.String("位址", redisCfg.Addr),
		zap.Int("資料庫", redisCfg.DB),
	)

	return &RedisCache{
		client: client,
		cfg:    cacheCfg,
	}, nil
}

// Get 獲取快取
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("redis", key)
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit("redis", key)
	return data, nil
}

// Set 設置快取，使用設定的 TTL
func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Delete 刪除快取
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NewCache 依設定挑選快取實作
// Redis 啟用且連得上就用 Redis，否則退回行程內快取
func NewCache(cfg *config.Config) Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	if cfg.Redis.Enabled {
		c, err := NewRedisCache(cfg.Redis, cfg.Cache)
		if err == nil {
			return c
		}
		common.LogWarn("Redis 連線失敗，改用行程內快取", zap.Error(err))
	}

	return NewMemoryCache(cfg.Cache)
}
