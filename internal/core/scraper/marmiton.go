package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// MarmitonSource marmiton.org 的搜尋頁面
// 頁面內嵌 JSON-LD 結構化資料，從中取出食譜而不解析整份 HTML
type MarmitonSource struct {
	client *resty.Client
}

// NewMarmitonSource 建立 Marmiton 來源
func NewMarmitonSource(cfg config.ScraperConfig) *MarmitonSource {
	client := resty.New().
		SetBaseURL("https://www.marmiton.org").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("Accept-Language", "fr-FR,fr;q=0.9").
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; smart-shopping/1.0)")

	return &MarmitonSource{client: client}
}

// Name 來源名稱
func (s *MarmitonSource) Name() string {
	return "marmiton"
}

var jsonLDPattern = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)

// marmitonRecipe JSON-LD 的 Recipe 節點
type marmitonRecipe struct {
	Type              string   `json:"@type"`
	Name              string   `json:"name"`
	URL               string   `json:"url"`
	Image             string   `json:"image"`
	RecipeYield       string   `json:"recipeYield"`
	RecipeIngredient  []string `json:"recipeIngredient"`
	TotalTime         string   `json:"totalTime"`
}

// Search 搜尋 Marmiton 食譜
func (s *MarmitonSource) Search(ctx context.Context, query string, limit int) ([]common.RecipeDocument, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("aqt", query).
		Get("/recettes/recherche.aspx")
	if err != nil {
		return nil, fmt.Errorf("marmiton search request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("marmiton search returned status %d", resp.StatusCode())
	}

	return s.parseJSONLD(resp.Body(), limit), nil
}

// parseJSONLD 逐一掃描頁面中的 JSON-LD 區塊，只保留 Recipe 節點
func (s *MarmitonSource) parseJSONLD(body []byte, limit int) []common.RecipeDocument {
	var docs []common.RecipeDocument

	for _, match := range jsonLDPattern.FindAllSubmatch(body, -1) {
		if len(docs) >= limit {
			break
		}

		var node marmitonRecipe
		if err := json.Unmarshal(match[1], &node); err != nil {
			// 區塊可能是清單或其他型別的節點，跳過即可
			continue
		}
		if node.Type != "Recipe" || node.Name == "" || len(node.RecipeIngredient) == 0 {
			continue
		}

		docs = append(docs, common.RecipeDocument{
			Name:        node.Name,
			Source:      "marmiton",
			URL:         node.URL,
			Ingredients: node.RecipeIngredient,
			Servings:    parseYield(node.RecipeYield),
			PrepMinutes: parseISODurationMinutes(node.TotalTime),
		})
	}
	return docs
}

var yieldPattern = regexp.MustCompile(`\d+`)

// parseYield 從 "4 personnes" 之類的字串取人數
func parseYield(raw string) int {
	m := yieldPattern.FindString(raw)
	if m == "" {
		return 4
	}
	var n int
	fmt.Sscanf(m, "%d", &n)
	if n <= 0 {
		return 4
	}
	return n
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)

// parseISODurationMinutes 解析 JSON-LD 的 ISO 8601 時長（PT1H30M）
func parseISODurationMinutes(raw string) int {
	m := isoDurationPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	var hours, minutes int
	if m[1] != "" {
		fmt.Sscanf(m[1], "%d", &hours)
	}
	if m[2] != "" {
		fmt.Sscanf(m[2], "%d", &minutes)
	}
	return hours*60 + minutes
}
