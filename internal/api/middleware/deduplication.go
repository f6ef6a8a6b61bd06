package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"
)

// dedupGuard 記錄最近送出的請求指紋，攔下時間窗內的重複送出
type dedupGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newDedupGuard() *dedupGuard {
	return &dedupGuard{seen: make(map[string]time.Time)}
}

// remember 回報指紋是否在時間窗內出現過，未出現則記下時間戳
func (g *dedupGuard) remember(fingerprint string, now time.Time, window time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.seen[fingerprint]; ok && now.Sub(last) <= window {
		return true
	}
	g.seen[fingerprint] = now
	return false
}

// sweep 清掉過期指紋，避免 map 無上限成長
func (g *dedupGuard) sweep(window time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for k, t := range g.seen {
		if now.Sub(t) > window {
			delete(g.seen, k)
		}
	}
}

// isListMutatingPath 會累加清單數量的 POST 路由
// 搜尋類 POST 重送沒有副作用，不需要攔
func isListMutatingPath(path string) bool {
	return strings.HasSuffix(path, "/shopping-list") ||
		strings.HasSuffix(path, "/consolidate-and-add") ||
		strings.HasSuffix(path, "/add-to-list")
}

// Deduplication 重複送出防護
// 同一 IP 在時間窗內對同一路由重送相同 payload 會讓數量重複累加，
// 以 IP、路徑與請求體雜湊組成指紋攔下第二次
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	window := 1 * time.Second
	if cfg != nil && cfg.DedupWindow > 0 {
		window = cfg.DedupWindow
	}

	guard := newDedupGuard()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			guard.sweep(10 * window)
		}
	}()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || !isListMutatingPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("讀取請求體失敗", zap.Error(err))
				c.Next()
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 請求體讀過一次就空了，還原給後續 handler 綁定
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + bodyHash
		if guard.remember(fingerprint, time.Now(), window) {
			common.LogWarn("攔下重複送出",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "requête dupliquée, réessayez dans un instant",
				"code":    "DUPLICATE_REQUEST",
			})
			return
		}

		c.Next()
	}
}
