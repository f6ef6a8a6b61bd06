package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"smart-shopping/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 單一客戶端的令牌桶
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	capacity int
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   requests,
		capacity: requests,
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastTime).Seconds()

	// 添加新令牌
	newTokens := int(elapsed * rl.rate)
	if newTokens > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+newTokens)
		rl.lastTime = now
	}

	// 檢查是否有可用令牌
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}

	return false
}

// clientLimiters 以客戶端 IP 為鍵的限流器集合
// 每條路由各有一組，額度互不干擾
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	requests int
	window   time.Duration
}

func (cl *clientLimiters) get(ip string) *RateLimiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	limiter, ok := cl.limiters[ip]
	if !ok {
		limiter = NewRateLimiter(cl.requests, cl.window)
		cl.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit 限流中間件，額度按客戶端 IP 各自計算
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiters := &clientLimiters{
		limiters: make(map[string]*RateLimiter),
		requests: requests,
		window:   window,
	}

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// min 返回兩個整數中的較小值
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
