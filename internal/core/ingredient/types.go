package ingredient

import "errors"

// 引擎層錯誤，於 AddMention 時立即回報，不延遲到 Consolidate
var (
	// ErrInvalidIngredientName 食材名稱為空或僅含空白
	ErrInvalidIngredientName = errors.New("invalid ingredient name")
	// ErrInvalidQuantity 數量為負數或非有限數值
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Mention 一筆食材引用：某份食譜中出現的一行食材
// 建立後不可變，由呼叫端或 Parser 產生
type Mention struct {
	RawName    string  `json:"raw_name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	SourceID   string  `json:"source_id"`
	SourceName string  `json:"source_name"`
}

// Contribution 單一食譜對合併項目的貢獻（溯源記錄）
type Contribution struct {
	SourceID   string  `json:"source_id"`
	SourceName string  `json:"source_name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
}

// Entry 一個正規化鍵對應的合併結果
type Entry struct {
	// DisplayName 第一筆引用的原始名稱，之後合併不再改寫
	DisplayName string `json:"display_name"`
	// TotalQuantity 以 Unit 計的累計數量，只增不減
	TotalQuantity float64 `json:"total_quantity"`
	// Unit 第一筆引用換算後的標準單位
	Unit string `json:"unit"`
	// Contributions 依來源食譜排序的貢獻列表
	Contributions []Contribution `json:"contributions"`
	// HasUnitMismatch 曾出現無法換算的單位（總量未含該筆）
	HasUnitMismatch bool `json:"has_unit_mismatch"`
	// IsConsolidated 由 Consolidate 計算：貢獻來源多於一個
	IsConsolidated bool `json:"is_consolidated"`
}

// BatchError 批次處理中單筆被拒絕的記錄
type BatchError struct {
	Index   int    `json:"index"`
	RawName string `json:"raw_name"`
	Err     error  `json:"-"`
	Message string `json:"message"`
}

// BatchReport 批次加入的結果（部分失敗不中斷整批）
type BatchReport struct {
	Total        int          `json:"total"`
	Accepted     int          `json:"accepted"`
	CreatedCount int          `json:"created_count"`
	MergedCount  int          `json:"merged_count"`
	Errors       []BatchError `json:"errors,omitempty"`
}
