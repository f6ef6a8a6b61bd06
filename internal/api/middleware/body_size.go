package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-shopping/internal/pkg/common"
)

// recipePayloadFactor 整份食譜（名稱加上全部食材行）遠大於單筆新增，
// 食譜與整併路由的上限放寬為基準的四倍
const recipePayloadFactor = 4

// isRecipePayloadPath 判斷路由是否會收整份食譜 payload
func isRecipePayloadPath(path string) bool {
	return strings.Contains(path, "/recipes") ||
		strings.HasSuffix(path, "/consolidate-and-add")
}

// BodySizeLimit 限制請求體大小的中間件，依路由決定上限
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxSize
		if isRecipePayloadPath(c.Request.URL.Path) {
			limit = maxSize * recipePayloadFactor
		}

		if c.Request.ContentLength > limit {
			common.LogWarn("請求體過大",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", limit),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success":  false,
				"error":    "corps de requête trop volumineux",
				"code":     "BODY_TOO_LARGE",
				"max_size": limit,
			})
			return
		}

		// Content-Length 可被偽造，實際讀取仍設硬上限
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

		c.Next()
	}
}
