package ingredient

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedLine 從一行食材原文萃取出的結構
// Quantity 為 nil 表示原文沒有可辨識的數量，下游依慣例視為 1 unité
type ParsedLine struct {
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
	Name     string   `json:"name"`
	RawText  string   `json:"raw_text"`
}

// 解析樣式依特異度排序，第一個命中者生效
// 數字同時接受 . 與 ,（法文輸入）作為小數點
var (
	// 500g farine / 20 cl crème
	massVolumePattern = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*(g|kg|ml|l|cl|dl)\s+(.+)$`)
	// 2 cuillères à soupe d'huile / 1 c. à c. sel
	spoonPattern = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s+(cuillères?\s+à\s+(?:soupe|café)|c\.?\s*à\s*[sc]\.?)\s+(.+)$`)
	// 2 gousses d'ail / 1 pincée sel
	namedMeasurePattern = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s+(tasses?|verres?|pincées?|gousses?|tranches?|branches?)\s+(.+)$`)
	// 3 œufs
	bareCountPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s+(.+)$`)
)

// Parser 食材原文解析器：盡力而為的啟發式，
// 解析失敗一律降級成「整行皆名稱」而不回傳錯誤，
// 因為食譜原文不可靠，硬性失敗會擋下排版奇特但正當的食譜
type Parser struct{}

// NewParser 建立解析器
func NewParser() *Parser {
	return &Parser{}
}

// Parse 萃取 (數量, 單位, 名稱) 三元組
// 不處理範圍（2-3）、分數（½）、複合單位（1kg500g）
func (p *Parser) Parse(text string) ParsedLine {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ParsedLine{RawText: text}
	}

	if m := massVolumePattern.FindStringSubmatch(trimmed); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return ParsedLine{
				Quantity: &qty,
				Unit:     strings.ToLower(m[2]),
				Name:     strings.TrimSpace(m[3]),
				RawText:  text,
			}
		}
	}

	if m := spoonPattern.FindStringSubmatch(trimmed); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return ParsedLine{
				Quantity: &qty,
				Unit:     canonicalSpoon(m[2]),
				Name:     strings.TrimSpace(m[3]),
				RawText:  text,
			}
		}
	}

	if m := namedMeasurePattern.FindStringSubmatch(trimmed); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return ParsedLine{
				Quantity: &qty,
				Unit:     CanonicalUnit(m[2]),
				Name:     strings.TrimSpace(m[3]),
				RawText:  text,
			}
		}
	}

	if m := bareCountPattern.FindStringSubmatch(trimmed); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return ParsedLine{
				Quantity: &qty,
				Unit:     BaseUnitCount,
				Name:     strings.TrimSpace(m[2]),
				RawText:  text,
			}
		}
	}

	// 備援：整行視為名稱
	return ParsedLine{Name: trimmed, RawText: text}
}

// Mention 將解析結果轉成可入帳的引用
// 數量缺漏依慣例補 1、單位缺漏補 unité
func (pl ParsedLine) Mention(sourceID, sourceName string) Mention {
	qty := 1.0
	if pl.Quantity != nil {
		qty = *pl.Quantity
	}
	unit := pl.Unit
	if unit == "" {
		unit = BaseUnitCount
	}
	return Mention{
		RawName:    pl.Name,
		Quantity:   qty,
		Unit:       unit,
		SourceID:   sourceID,
		SourceName: sourceName,
	}
}

// parseQuantity 解析數字符記，逗號小數點換成句點
func parseQuantity(token string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// canonicalSpoon 把湯匙／茶匙的各種寫法（複數、c. à s. 縮寫）收斂成標準名
func canonicalSpoon(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if strings.Contains(u, "café") {
		return "cuillère à café"
	}
	if strings.Contains(u, "soupe") {
		return "cuillère à soupe"
	}
	// 縮寫形：最後一個字母決定 soupe 或 café
	compact := strings.Trim(strings.ReplaceAll(u, " ", ""), ".")
	if strings.HasSuffix(compact, "c") && compact != "c" {
		return "cuillère à café"
	}
	return "cuillère à soupe"
}
