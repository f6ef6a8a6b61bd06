package ingredient

import (
	"fmt"
	"math"
	"strings"
)

// Ledger 食材彙總引擎：以正規化鍵累積引用並產出合併快照
// 生命週期限定於單一次合併作業（一次加入食譜、一次建立清單），
// 不跨請求共用，也不做內部鎖，併發呼叫端應各自建立實例
type Ledger struct {
	normalizer *Normalizer
	converter  *Converter

	// keys 依首次出現順序排列，讓近似比對與快照輸出皆可重現
	keys    []string
	entries map[string]*Entry
}

// NewLedger 以預設正規化器與換算器建立帳本
func NewLedger() *Ledger {
	return NewLedgerWith(NewNormalizer(), NewConverter())
}

// NewLedgerWith 以指定元件建立帳本（測試或擴充別名表時使用）
func NewLedgerWith(n *Normalizer, c *Converter) *Ledger {
	return &Ledger{
		normalizer: n,
		converter:  c,
		entries:    make(map[string]*Entry),
	}
}

// AddMention 加入一筆食材引用
// 名稱為空回傳 ErrInvalidIngredientName；數量非法回傳 ErrInvalidQuantity
func (l *Ledger) AddMention(m Mention) error {
	raw := strings.TrimSpace(m.RawName)
	if raw == "" {
		return fmt.Errorf("%w: empty raw name", ErrInvalidIngredientName)
	}
	if m.Quantity < 0 || math.IsNaN(m.Quantity) || math.IsInf(m.Quantity, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, m.Quantity)
	}

	key := l.normalizer.Normalize(raw)
	if key == "" {
		// 名稱全為標點符號，正規化後沒有內容
		return fmt.Errorf("%w: %q normalizes to empty", ErrInvalidIngredientName, raw)
	}

	entry, key := l.resolve(key)
	if entry == nil {
		l.create(key, raw, m)
		return nil
	}

	l.merge(entry, m)
	return nil
}

// AddBatch 批次加入：單筆失敗不影響其餘，錯誤逐筆收集回報
func (l *Ledger) AddBatch(mentions []Mention) BatchReport {
	report := BatchReport{Total: len(mentions)}

	for i, m := range mentions {
		key := l.normalizer.Normalize(m.RawName)
		_, known := l.entries[key]
		if !known && key != "" {
			_, known = l.normalizer.BestMatch(key, l.keys)
		}

		if err := l.AddMention(m); err != nil {
			report.Errors = append(report.Errors, BatchError{
				Index:   i,
				RawName: m.RawName,
				Err:     err,
				Message: err.Error(),
			})
			continue
		}

		report.Accepted++
		if known {
			report.MergedCount++
		} else {
			report.CreatedCount++
		}
	}

	return report
}

// Consolidate 產出合併快照：總量四捨五入到小數兩位、
// 計算 IsConsolidated，回傳值與內部狀態完全脫鉤
func (l *Ledger) Consolidate() map[string]Entry {
	out := make(map[string]Entry, len(l.entries))

	for _, key := range l.keys {
		e := l.entries[key]
		snapshot := Entry{
			DisplayName:     e.DisplayName,
			TotalQuantity:   round2(e.TotalQuantity),
			Unit:            e.Unit,
			Contributions:   make([]Contribution, len(e.Contributions)),
			HasUnitMismatch: e.HasUnitMismatch,
			IsConsolidated:  len(e.Contributions) > 1,
		}
		for i, c := range e.Contributions {
			c.Quantity = round2(c.Quantity)
			snapshot.Contributions[i] = c
		}
		out[key] = snapshot
	}

	return out
}

// KeyFor 回傳原始名稱在帳本中會落入的鍵，不改動帳本狀態
// 第二個回傳值表示該鍵是否已存在於帳本
func (l *Ledger) KeyFor(rawName string) (string, bool) {
	key := l.normalizer.Normalize(rawName)
	if key == "" {
		return "", false
	}
	if _, ok := l.entries[key]; ok {
		return key, true
	}
	if match, ok := l.normalizer.BestMatch(key, l.keys); ok {
		return match, true
	}
	return key, false
}

// Keys 依插入順序回傳所有正規化鍵
func (l *Ledger) Keys() []string {
	return append([]string{}, l.keys...)
}

// Len 目前帳本中的合併項目數
func (l *Ledger) Len() int {
	return len(l.entries)
}

// resolve 找出鍵對應的既有項目：先精確比對，再依插入順序做近似比對
func (l *Ledger) resolve(key string) (*Entry, string) {
	if e, ok := l.entries[key]; ok {
		return e, key
	}
	if match, ok := l.normalizer.BestMatch(key, l.keys); ok {
		return l.entries[match], match
	}
	return nil, key
}

// create 建立新項目：顯示名稱取第一筆引用的原文，
// 單位換算到所屬類別的基準單位
func (l *Ledger) create(key, displayName string, m Mention) {
	qty, unit := l.converter.ToBase(m.Quantity, m.Unit)

	l.entries[key] = &Entry{
		DisplayName:   displayName,
		TotalQuantity: qty,
		Unit:          unit,
		Contributions: []Contribution{{
			SourceID:   m.SourceID,
			SourceName: m.SourceName,
			Quantity:   qty,
			Unit:       unit,
		}},
	}
	l.keys = append(l.keys, key)
}

// merge 將引用併入既有項目
// 可換算：累加總量並記入貢獻；不可換算：以原類別基準單位
// 另立貢獻行並標記 HasUnitMismatch，總量保持不動，
// 絕不把不相容單位硬壓成同一個數字
func (l *Ledger) merge(entry *Entry, m Mention) {
	if converted, ok := l.converter.Convert(m.Quantity, m.Unit, entry.Unit); ok {
		entry.TotalQuantity += converted
		l.upsertContribution(entry, m.SourceID, m.SourceName, converted, entry.Unit)
		return
	}

	qty, unit := l.converter.ToBase(m.Quantity, m.Unit)
	entry.HasUnitMismatch = true
	l.upsertContribution(entry, m.SourceID, m.SourceName, qty, unit)
}

// upsertContribution 同一來源且單位可換算者就地累加，否則新增一行
// 同一食譜重複列出同一食材時，不產生重複的溯源記錄
func (l *Ledger) upsertContribution(entry *Entry, sourceID, sourceName string, qty float64, unit string) {
	for i := range entry.Contributions {
		c := &entry.Contributions[i]
		if c.SourceID != sourceID {
			continue
		}
		if converted, ok := l.converter.Convert(qty, unit, c.Unit); ok {
			c.Quantity += converted
			return
		}
	}

	entry.Contributions = append(entry.Contributions, Contribution{
		SourceID:   sourceID,
		SourceName: sourceName,
		Quantity:   qty,
		Unit:       unit,
	})
}

// round2 四捨五入到小數兩位，僅用於快照輸出
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
