package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrCacheMiss 查無快取或已過期
var ErrCacheMiss = errors.New("cache miss")

// Cache 快取抽象：Redis 與行程內記憶體兩種實作
// 值一律為序列化後的位元組，由呼叫端決定編碼
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SearchKey 食譜搜尋結果的快取鍵
// 查詢字串先正規化再雜湊，大小寫與前後空白不影響命中
func SearchKey(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("recipe:search:%s", hex.EncodeToString(hash[:]))
}

// StatsKey 清單統計的快取鍵
func StatsKey() string {
	return "shopping:stats"
}
