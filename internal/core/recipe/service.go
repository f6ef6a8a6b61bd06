package recipe

import (
	"context"
	"fmt"
	"strings"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// ListConsolidator 購物清單的批次合併入口
type ListConsolidator interface {
	ConsolidateAndAdd(ctx context.Context, mentions []ingredient.Mention) (*ingredient.BatchReport, error)
}

// Service 食譜服務：管理本地食譜並把食材送進購物清單
type Service struct {
	store  *Store
	list   ListConsolidator
	parser *ingredient.Parser
}

// NewService 建立食譜服務
func NewService(store *Store, list ListConsolidator) *Service {
	return &Service{
		store:  store,
		list:   list,
		parser: ingredient.NewParser(),
	}
}

// Create 新增食譜，名稱與食材不可為空
func (s *Service) Create(ctx context.Context, r Recipe) (*Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, fmt.Errorf("%w: empty recipe name", ingredient.ErrInvalidIngredientName)
	}
	if len(r.Ingredients) == 0 {
		return nil, fmt.Errorf("recipe %q has no ingredients", r.Name)
	}

	if r.Source == "" {
		r.Source = "user"
	}
	if r.Servings <= 0 {
		r.Servings = DefaultServings
	}
	if r.PrepTime <= 0 {
		r.PrepTime = DefaultPrepTime
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}

	id, err := s.store.Insert(ctx, r)
	if err != nil {
		return nil, err
	}
	r.ID = id

	common.LogInfo("食譜已建立",
		zap.Int64("食譜", id),
		zap.String("名稱", r.Name),
		zap.Int("食材行數", len(r.Ingredients)),
	)
	return &r, nil
}

// Get 依 ID 取得食譜
func (s *Service) Get(ctx context.Context, id int64) (*Recipe, error) {
	return s.store.Get(ctx, id)
}

// List 列出所有食譜
func (s *Service) List(ctx context.Context) ([]Recipe, error) {
	return s.store.List(ctx)
}

// Search 以名稱模糊比對搜尋本地食譜
func (s *Service) Search(ctx context.Context, query string) ([]Recipe, error) {
	return s.store.SearchByName(ctx, query)
}

// Count 本地食譜總數，供統計使用
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Delete 刪除食譜
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// AddToList 解析食譜的食材行並批次併入購物清單
// 單行解析或入帳失敗不中斷整道食譜，逐筆回報
func (s *Service) AddToList(ctx context.Context, id int64) (*ingredient.BatchReport, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sourceID := fmt.Sprintf("recipe:%d", r.ID)
	mentions := make([]ingredient.Mention, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		parsed := s.parser.Parse(line)
		mentions = append(mentions, parsed.Mention(sourceID, r.Name))
	}

	report, err := s.list.ConsolidateAndAdd(ctx, mentions)
	if err != nil {
		return nil, err
	}

	common.LogInfo("食譜食材已併入清單",
		zap.Int64("食譜", r.ID),
		zap.String("名稱", r.Name),
		zap.Int("接受", report.Accepted),
		zap.Int("失敗", len(report.Errors)),
	)
	return report, nil
}
