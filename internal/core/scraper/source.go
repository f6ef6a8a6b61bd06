package scraper

import (
	"context"
	"fmt"

	"smart-shopping/internal/pkg/common"
)

// Source 外部食譜來源
// 各來源自行負責抓取與格式轉換，失敗回傳錯誤由聚合層決定取捨
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]common.RecipeDocument, error)
}

// BuiltinSource 確定性的後備來源
// 外部來源全數失敗或停用時，回傳以查詢字組成的基本食譜，
// 讓清單流程在離線環境下仍可運作
type BuiltinSource struct{}

// NewBuiltinSource 建立後備來源
func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{}
}

// Name 來源名稱
func (s *BuiltinSource) Name() string {
	return "builtin"
}

// Search 以查詢字產生一份基本食譜
func (s *BuiltinSource) Search(ctx context.Context, query string, limit int) ([]common.RecipeDocument, error) {
	doc := common.RecipeDocument{
		Name:   fmt.Sprintf("Recette au %s", query),
		Source: "builtin",
		Ingredients: []string{
			fmt.Sprintf("300g %s", query),
			"2 cuillères à soupe d'huile d'olive",
			"1 oignon",
			"sel et poivre",
		},
		Servings:    4,
		PrepMinutes: 30,
	}
	return []common.RecipeDocument{doc}, nil
}
