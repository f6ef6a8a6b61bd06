package scraper

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/infrastructure/cache"
	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 食譜搜尋聚合層
// 並行呼叫各外部來源，合併去重後回傳；單一來源失敗不影響其餘，
// 全部失敗時退回後備來源，結果經快取
type Service struct {
	sources  []Source
	fallback Source
	cache    cache.Cache // 可為 nil
	workers  int
}

// NewService 依設定組裝聚合層
func NewService(cfg *config.Config, c cache.Cache) *Service {
	var sources []Source
	if cfg.Scraper.Enabled {
		sources = append(sources,
			NewJowSource(cfg.Scraper),
			NewMarmitonSource(cfg.Scraper),
		)
	}

	workers := cfg.Scraper.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Service{
		sources:  sources,
		fallback: NewBuiltinSource(),
		cache:    c,
		workers:  workers,
	}
}

// NewServiceWith 以指定來源組裝，測試時替換假來源使用
func NewServiceWith(sources []Source, fallback Source, c cache.Cache, workers int) *Service {
	if workers <= 0 {
		workers = 1
	}
	return &Service{sources: sources, fallback: fallback, cache: c, workers: workers}
}

// SearchResult 聚合搜尋結果
type SearchResult struct {
	Recipes []common.RecipeDocument `json:"recipes"`
	Count   int                     `json:"count"`
	Query   string                  `json:"query"`
	Source  string                  `json:"source"` // scraping / fallback / cache
}

// Search 搜尋食譜
func (s *Service) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewValidationError("query de recherche requise")
	}
	if limit <= 0 {
		limit = 8
	}

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cache.SearchKey(query)); err == nil {
			var result SearchResult
			if err := common.ParseJSONBytes(data, &result); err == nil {
				result.Source = "cache"
				return &result, nil
			}
		}
	}

	docs := s.fanOut(ctx, query, limit)
	source := "scraping"

	if len(docs) == 0 {
		// 外部來源全滅，退回後備來源
		fallbackDocs, err := s.fallback.Search(ctx, query, limit)
		if err != nil {
			common.LogError("後備來源失敗", zap.String("query", query), zap.Error(err))
			return nil, common.ErrScraperUnavailable
		}
		docs = fallbackDocs
		source = "fallback"
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}

	result := &SearchResult{
		Recipes: docs,
		Count:   len(docs),
		Query:   query,
		Source:  source,
	}

	if s.cache != nil && source == "scraping" {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, cache.SearchKey(query), data)
		}
	}
	return result, nil
}

// fanOut 以固定數量的 worker 並行查詢所有來源
func (s *Service) fanOut(ctx context.Context, query string, limit int) []common.RecipeDocument {
	if len(s.sources) == 0 {
		return nil
	}

	type sourceResult struct {
		order int
		docs  []common.RecipeDocument
	}

	jobs := make(chan int, len(s.sources))
	results := make(chan sourceResult, len(s.sources))

	var wg sync.WaitGroup
	workers := s.workers
	if workers > len(s.sources) {
		workers = len(s.sources)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				src := s.sources[idx]
				start := time.Now()
				docs, err := src.Search(ctx, query, limit)
				common.LogScrape(src.Name(), query, time.Since(start), err)
				if err != nil {
					// 單一來源失敗不影響其餘
					continue
				}
				results <- sourceResult{order: idx, docs: docs}
			}
		}()
	}

	for i := range s.sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	// 依來源順序合併，結果可重現
	byOrder := make([][]common.RecipeDocument, len(s.sources))
	for r := range results {
		byOrder[r.order] = r.docs
	}

	normalizer := ingredient.NewNormalizer()
	seen := make(map[string]bool)
	var merged []common.RecipeDocument

	for _, docs := range byOrder {
		for _, doc := range docs {
			key := normalizer.Normalize(doc.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, doc)
		}
	}

	common.LogInfo("食譜搜尋聚合完成",
		zap.String("查詢", query),
		zap.Int("結果數", len(merged)),
	)
	return merged
}
