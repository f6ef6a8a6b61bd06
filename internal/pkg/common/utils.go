package common

import (
	"strconv"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ParseBoolQuery 解析查詢參數中的布林值，空字串或無法解析時回傳預設值
func ParseBoolQuery(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
