package recipe

import "time"

// Recipe 食譜：食材以逐行原文保存，加入清單時才解析
type Recipe struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"` // jow / marmiton / builtin / user
	URL         string    `json:"url,omitempty"`
	Ingredients []string  `json:"ingredients"`
	Servings    int       `json:"servings"`
	PrepTime    int       `json:"prep_time"` // 分鐘
	Difficulty  string    `json:"difficulty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// 預設值沿用資料表定義
const (
	DefaultServings   = 4
	DefaultPrepTime   = 30
	DefaultDifficulty = "Moyen"
)
