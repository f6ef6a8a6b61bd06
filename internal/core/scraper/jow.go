package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// JowSource jow.fr 的公開食譜 API
type JowSource struct {
	client *resty.Client
}

// NewJowSource 建立 Jow 來源
func NewJowSource(cfg config.ScraperConfig) *JowSource {
	client := resty.New().
		SetBaseURL("https://api.jow.fr").
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Language", "fr-FR,fr;q=0.9").
		SetHeader("User-Agent", "smart-shopping/1.0")

	return &JowSource{client: client}
}

// Name 來源名稱
func (s *JowSource) Name() string {
	return "jow"
}

// jowRecipe Jow API 的食譜回應格式
type jowRecipe struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	CoversCount int    `json:"coversCount"`
	PrepTime    int    `json:"preparationTime"`
	Constituents []struct {
		Ingredient struct {
			Name string `json:"name"`
		} `json:"ingredient"`
		QuantityPerCover float64 `json:"quantityPerCover"`
		Unit             struct {
			Name string `json:"name"`
		} `json:"unit"`
	} `json:"constituents"`
}

// Search 搜尋 Jow 食譜
func (s *JowSource) Search(ctx context.Context, query string, limit int) ([]common.RecipeDocument, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query": query,
			"limit": fmt.Sprintf("%d", limit),
		}).
		Get("/public/recipe/quicksearch")
	if err != nil {
		return nil, fmt.Errorf("jow search request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("jow search returned status %d", resp.StatusCode())
	}

	var recipes []jowRecipe
	if err := json.Unmarshal(resp.Body(), &recipes); err != nil {
		return nil, fmt.Errorf("parse jow response: %w", err)
	}

	docs := make([]common.RecipeDocument, 0, len(recipes))
	for _, r := range recipes {
		if len(docs) >= limit {
			break
		}

		servings := r.CoversCount
		if servings <= 0 {
			servings = 4
		}

		doc := common.RecipeDocument{
			Name:        r.Title,
			Source:      "jow",
			URL:         fmt.Sprintf("https://jow.fr/recipes/%s", r.ID),
			Servings:    servings,
			PrepMinutes: r.PrepTime,
		}
		for _, c := range r.Constituents {
			qty := c.QuantityPerCover * float64(servings)
			line := c.Ingredient.Name
			if qty > 0 {
				if c.Unit.Name != "" {
					line = fmt.Sprintf("%g %s %s", qty, c.Unit.Name, c.Ingredient.Name)
				} else {
					line = fmt.Sprintf("%g %s", qty, c.Ingredient.Name)
				}
			}
			doc.Ingredients = append(doc.Ingredients, line)
		}

		if doc.Name != "" && len(doc.Ingredients) > 0 {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
