package shopping

import (
	"time"

	"smart-shopping/internal/core/ingredient"
)

// Item 購物清單項目
type Item struct {
	ID            int64                     `json:"id"`
	Name          string                    `json:"name"`
	Category      string                    `json:"category"`
	Quantity      float64                   `json:"quantity"`
	Unit          string                    `json:"unit"`
	Checked       bool                      `json:"checked"`
	UnitMismatch  bool                      `json:"unit_mismatch"`
	RecipeSources []ingredient.Contribution `json:"recipe_sources,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// FrequentItem 常買項目統計
type FrequentItem struct {
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	UsageCount int       `json:"usage_count"`
	LastUsed   time.Time `json:"last_used"`
}

// Stats 清單整體統計
type Stats struct {
	TotalItems   int     `json:"total_items"`
	CheckedItems int     `json:"checked_items"`
	PendingItems int     `json:"pending_items"`
	CheckedRatio float64 `json:"checked_ratio"`
}

// AddResult 單筆加入的結果
type AddResult struct {
	Action string `json:"action"` // created / merged
	ItemID int64  `json:"item_id"`
	Item   *Item  `json:"item,omitempty"`
}

// 加入動作種類
const (
	ActionCreated = "created"
	ActionMerged  = "merged"
)

// DefaultCategory 未指定分類時的預設值
const DefaultCategory = "Divers"
