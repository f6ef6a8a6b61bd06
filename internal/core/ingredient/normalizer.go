package ingredient

import (
	"regexp"
	"strings"
)

// aliasRule 別名替換規則：變體字串（已去重音）換成標準寫法
// 依表順序逐條套用，全表掃完，名稱含多個別名時一次換齊
type aliasRule struct {
	variant   string
	canonical string
}

// 預設別名表，整併自各食譜來源的常見寫法
// 長字串在前，避免子字串先被短規則吃掉（spaghettis 要排在 spaghetti 前）
var defaultAliases = []aliasRule{
	// 麵食
	{"spaghettis", "pates"},
	{"spaghetti", "pates"},
	{"tagliatelles", "pates"},
	{"linguine", "pates"},
	{"macaroni", "pates"},
	{"fusilli", "pates"},
	{"penne", "pates"},
	{"pasta", "pates"},

	// 蔬菜
	{"tomates cerises", "tomate"},
	{"tomates", "tomate"},
	{"oignon rouge", "oignon"},
	{"oignon blanc", "oignon"},
	{"oignons", "oignon"},
	{"echalote", "oignon"},
	{"pommes de terre", "pomme de terre"},
	{"patates", "pomme de terre"},
	{"patate", "pomme de terre"},

	// 乳製品
	{"lait demi ecreme", "lait"},
	{"lait entier", "lait"},
	{"lait ecreme", "lait"},
	{"creme fraiche", "creme"},
	{"creme liquide", "creme"},

	// 肉類
	{"escalope de poulet", "poulet"},
	{"blanc de poulet", "poulet"},
	{"cuisse de poulet", "poulet"},
	{"boeuf hache", "boeuf"},
	{"steak hache", "boeuf"},
	{"lardons fumes", "lardons"},

	// 乳酪
	{"parmesan rape", "parmesan"},
	{"gruyere rape", "gruyere"},
	{"emmental rape", "emmental"},

	// 蛋
	{"oeufs", "oeuf"},
}

// 重音字母對照表，刻意採顯式映射而非 Unicode NFD 分解，
// 確保結果可重現且不引入額外依賴；œ/æ 需展開成雙字母，
// 否則會被後續的標點過濾整個刪掉
var accentReplacer = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ã", "a", "ä", "a", "å", "a",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i",
	"ò", "o", "ó", "o", "ô", "o", "õ", "o", "ö", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
	"œ", "oe", "æ", "ae",
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// Normalizer 食材名稱正規化器
// Normalize 為純函數：無 I/O、無隨機性，且具冪等性
type Normalizer struct {
	aliases             []aliasRule
	similarityThreshold float64
}

// NewNormalizer 建立帶預設別名表的正規化器
func NewNormalizer() *Normalizer {
	return &Normalizer{
		aliases:             defaultAliases,
		similarityThreshold: 0.85,
	}
}

// NewNormalizerWithAliases 以額外別名擴充預設表（附加在表尾）
func NewNormalizerWithAliases(extra []aliasRule) *Normalizer {
	n := NewNormalizer()
	n.aliases = append(append([]aliasRule{}, defaultAliases...), extra...)
	return n
}

// Normalize 將原始名稱轉為比較鍵：
// 小寫、去重音、去標點、壓縮空白，再套用別名替換
// 空字串輸入回傳空字串，由呼叫端視為「未指定食材」
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	s = accentReplacer.Replace(s)
	s = nonAlnumPattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))

	// 別名替換依表順序逐條套用，同一條規則換到不再出現為止，
	// 輸出因此是固定點：再正規化一次結果不變
	for _, rule := range n.aliases {
		if strings.Contains(rule.canonical, rule.variant) {
			// 標準寫法含變體字串的規則換不完，跳過
			continue
		}
		for strings.Contains(s, rule.variant) {
			s = strings.ReplaceAll(s, rule.variant, rule.canonical)
		}
	}

	return strings.TrimSpace(s)
}

// Similar 判斷兩個比較鍵是否為近似同物
// 規則沿用上游：包含關係（長度需大於 3）或編輯距離相似度達門檻
func (n *Normalizer) Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if (strings.Contains(a, b) || strings.Contains(b, a)) && minInt(len(a), len(b)) > 3 {
		return true
	}
	return similarityRatio(a, b) >= n.similarityThreshold
}

// BestMatch 在候選鍵中找出第一個與 key 近似者，依候選順序決定，結果確定性
func (n *Normalizer) BestMatch(key string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if n.Similar(key, c) {
			return c, true
		}
	}
	return "", false
}

// similarityRatio 以編輯距離計算相似度：1 - dist/maxLen
// 有界且確定性，取代上游的 SequenceMatcher
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(minInt(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(prev[lb])/float64(maxLen)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
