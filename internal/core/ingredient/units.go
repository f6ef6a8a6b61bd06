package ingredient

import "strings"

// Class 單位相容類別，不同類別之間永不做數值合併
type Class string

const (
	ClassMass    Class = "mass"
	ClassVolume  Class = "volume"
	ClassCount   Class = "count"
	ClassUnknown Class = "unknown"
)

// unitDef 單位定義：所屬類別與換算到類別基準單位的係數
type unitDef struct {
	class  Class
	factor float64
}

// 各類別的基準單位：重量累計用 g、容量用 ml、計數用 unité
// 聚合一律停留在最小單位，避免反覆捨入
const (
	BaseUnitMass   = "g"
	BaseUnitVolume = "ml"
	BaseUnitCount  = "unité"
)

var unitTable = map[string]unitDef{
	// 重量
	"mg": {ClassMass, 0.001},
	"g":  {ClassMass, 1},
	"kg": {ClassMass, 1000},

	// 容量
	"ml": {ClassVolume, 1},
	"cl": {ClassVolume, 10},
	"dl": {ClassVolume, 100},
	"l":  {ClassVolume, 1000},

	// 料理量具（換算成 ml）
	"cuillère à soupe": {ClassVolume, 15},
	"cuillère à café":  {ClassVolume, 5},
	"tasse":            {ClassVolume, 250},
	"verre":            {ClassVolume, 200},

	// 計數
	"unité":   {ClassCount, 1},
	"pièce":   {ClassCount, 1},
	"tranche": {ClassCount, 1},
	"gousse":  {ClassCount, 1},
	"branche": {ClassCount, 1},
	"pincée":  {ClassCount, 1},
}

// 常見變體寫法（複數、縮寫）收斂到表內的標準單位名
var unitAliases = map[string]string{
	"cuillères à soupe": "cuillère à soupe",
	"cuillères à café":  "cuillère à café",
	"c. à soupe":        "cuillère à soupe",
	"c. à café":         "cuillère à café",
	"c. à s.":           "cuillère à soupe",
	"c. à c.":           "cuillère à café",
	"c à s":             "cuillère à soupe",
	"c à c":             "cuillère à café",
	"tasses":            "tasse",
	"verres":            "verre",
	"unités":            "unité",
	"pièces":            "pièce",
	"tranches":          "tranche",
	"gousses":           "gousse",
	"branches":          "branche",
	"pincées":           "pincée",
}

// Converter 表驅動的單位換算器，無狀態、可併發共用
type Converter struct{}

// NewConverter 建立單位換算器
func NewConverter() *Converter {
	return &Converter{}
}

// CanonicalUnit 單位名稱正規化：小寫、修剪、收斂變體
// 表外字串原樣回傳（未知單位採 pass-through，不拒絕）
func CanonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if alias, ok := unitAliases[u]; ok {
		return alias
	}
	return u
}

// Class 回傳單位所屬類別，表外單位為 ClassUnknown
func (c *Converter) Class(unit string) Class {
	if def, ok := unitTable[CanonicalUnit(unit)]; ok {
		return def.class
	}
	return ClassUnknown
}

// Convert 將數量從 from 換算到 to
// 同名單位恆等換算；同類別經基準係數換算；跨類別或含未知單位回傳 false
func (c *Converter) Convert(quantity float64, from, to string) (float64, bool) {
	fu, tu := CanonicalUnit(from), CanonicalUnit(to)
	if fu == tu {
		return quantity, true
	}

	fdef, fok := unitTable[fu]
	tdef, tok := unitTable[tu]
	if !fok || !tok || fdef.class != tdef.class {
		return 0, false
	}

	return quantity * fdef.factor / tdef.factor, true
}

// ToBase 換算到所屬類別的基準單位；未知單位原樣帶回
func (c *Converter) ToBase(quantity float64, unit string) (float64, string) {
	u := CanonicalUnit(unit)
	def, ok := unitTable[u]
	if !ok {
		return quantity, u
	}

	switch def.class {
	case ClassMass:
		return quantity * def.factor, BaseUnitMass
	case ClassVolume:
		return quantity * def.factor, BaseUnitVolume
	default:
		return quantity * def.factor, BaseUnitCount
	}
}

// BestDisplayUnit 顯示用的單位升級：跨過 1000 門檻改用較大單位
// 僅供輸出呈現使用，聚合過程不得呼叫，以免累積捨入誤差
func (c *Converter) BestDisplayUnit(quantity float64, unit string) (float64, string) {
	switch CanonicalUnit(unit) {
	case "g":
		if quantity >= 1000 {
			return quantity / 1000, "kg"
		}
	case "ml":
		if quantity >= 1000 {
			return quantity / 1000, "l"
		}
	case "mg":
		if quantity >= 1000 {
			return quantity / 1000, "g"
		}
	}
	return quantity, CanonicalUnit(unit)
}
