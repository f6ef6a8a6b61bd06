package common

import (
	"fmt"
	"strings"
)

// RecipeDocument 跨層共用的食譜交換格式
// 抓取器、資料庫與 API 回應都使用同一結構
type RecipeDocument struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`                // jow / marmiton / builtin / user
	URL         string   `json:"url,omitempty"`         // 外部來源的原始連結
	Ingredients []string `json:"ingredients"`           // 每行一項食材原文
	Servings    int      `json:"servings,omitempty"`    // 供應人數
	PrepMinutes int      `json:"prep_minutes,omitempty"`
}

// ShoppingItemView 購物清單項目的 API 視圖
type ShoppingItemView struct {
	ID            int64              `json:"id"`
	Item          string             `json:"item"`
	Quantity      float64            `json:"quantity"`
	Unit          string             `json:"unit"`
	Checked       bool               `json:"checked"`
	Consolidated  bool               `json:"consolidated"`
	UnitMismatch  bool               `json:"unit_mismatch,omitempty"`
	RecipeSources []RecipeSourceView `json:"recipe_sources,omitempty"`
}

// RecipeSourceView 項目數量的單一來源貢獻
type RecipeSourceView struct {
	RecipeID   string  `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
}

// ConsolidateReportView 批次合併結果的 API 視圖
type ConsolidateReportView struct {
	Total    int                  `json:"total"`
	Accepted int                  `json:"accepted"`
	Created  int                  `json:"created"`
	Merged   int                  `json:"merged"`
	Errors   []ConsolidateLineErr `json:"errors,omitempty"`
}

// ConsolidateLineErr 批次中單行失敗的說明
type ConsolidateLineErr struct {
	Index   int    `json:"index"`
	RawName string `json:"raw_name"`
	Message string `json:"message"`
}

// FrequentItemView 常買項目統計的 API 視圖
type FrequentItemView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsView 清單整體統計
type StatsView struct {
	TotalItems    int                `json:"total_items"`
	CheckedItems  int                `json:"checked_items"`
	PendingItems  int                `json:"pending_items"`
	TotalRecipes  int                `json:"total_recipes"`
	CheckedRatio  float64            `json:"checked_ratio"`
	FrequentItems []FrequentItemView `json:"frequent_items,omitempty"`
}

// FormatIngredientLines 把食材原文逐行格式化成條列文字，用於日誌與 CLI 輸出
func FormatIngredientLines(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("- %s\n", line))
	}
	return sb.String()
}
