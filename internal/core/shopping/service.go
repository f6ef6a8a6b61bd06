package shopping

import (
	"context"
	"encoding/json"
	"fmt"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/infrastructure/cache"
	"smart-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 購物清單服務：在持久層之上套用食材彙總引擎
// 每次操作建立一個全新的帳本，先以清單現況播種，
// 再加入新引用，最後把合併快照寫回資料庫
type Service struct {
	store *Store
	cache cache.Cache // 可為 nil
}

// NewService 建立購物清單服務
func NewService(store *Store, c cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

// ListItems 取得完整清單
func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	return s.store.ListItems(ctx)
}

// GetItem 依 ID 取得項目
func (s *Service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.store.GetItem(ctx, id)
}

// AddItem 加入單一項目，與清單上既有項目做智慧合併
func (s *Service) AddItem(ctx context.Context, name string, quantity float64, unit, category string) (*AddResult, error) {
	if category == "" {
		category = DefaultCategory
	}
	if unit == "" {
		unit = ingredient.BaseUnitCount
	}

	ledger := ingredient.NewLedger()
	rowByKey, err := s.seedLedger(ctx, ledger)
	if err != nil {
		return nil, err
	}

	// 加入前先判定會落入的鍵，決定回報 created 或 merged
	key, known := ledger.KeyFor(name)

	mention := ingredient.Mention{
		RawName:    name,
		Quantity:   quantity,
		Unit:       unit,
		SourceID:   "user",
		SourceName: "Ajout manuel",
	}
	if err := ledger.AddMention(mention); err != nil {
		return nil, err
	}
	if !known {
		// 新引用建立了新鍵
		key, _ = ledger.KeyFor(name)
	}

	idByKey, err := s.applyLedger(ctx, ledger, rowByKey, category)
	if err != nil {
		return nil, err
	}

	// 以正規化鍵統計，單複數寫法算同一項
	if err := s.store.TouchFrequentItem(ctx, key, category); err != nil {
		common.LogWarn("常買項目統計更新失敗", zap.Error(err))
	}
	s.invalidateStats(ctx)

	action := ActionCreated
	if known {
		action = ActionMerged
	}

	result := &AddResult{Action: action, ItemID: idByKey[key]}
	if item, err := s.store.GetItem(ctx, result.ItemID); err == nil {
		result.Item = item
	}

	common.LogInfo("清單項目已加入",
		zap.String("名稱", name),
		zap.String("動作", action),
		zap.Int64("項目", result.ItemID),
	)
	return result, nil
}

// ConsolidateAndAdd 批次加入引用並與清單合併
// 單筆失敗不中斷整批，逐筆回報於 BatchReport.Errors
func (s *Service) ConsolidateAndAdd(ctx context.Context, mentions []ingredient.Mention) (*ingredient.BatchReport, error) {
	ledger := ingredient.NewLedger()
	rowByKey, err := s.seedLedger(ctx, ledger)
	if err != nil {
		return nil, err
	}

	report := ledger.AddBatch(mentions)

	if _, err := s.applyLedger(ctx, ledger, rowByKey, DefaultCategory); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)

	common.LogInfo("批次合併完成",
		zap.Int("總筆數", report.Total),
		zap.Int("接受", report.Accepted),
		zap.Int("新建", report.CreatedCount),
		zap.Int("併入", report.MergedCount),
		zap.Int("失敗", len(report.Errors)),
	)
	return &report, nil
}

// SetChecked 勾選或取消勾選項目
func (s *Service) SetChecked(ctx context.Context, id int64, checked bool) error {
	if err := s.store.SetChecked(ctx, id, checked); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// DeleteItem 刪除項目
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// ClearChecked 清除所有已勾選項目
func (s *Service) ClearChecked(ctx context.Context) (int64, error) {
	n, err := s.store.ClearChecked(ctx)
	if err != nil {
		return 0, err
	}
	s.invalidateStats(ctx)
	return n, nil
}

// FrequentItems 取得常買項目
func (s *Service) FrequentItems(ctx context.Context, limit int) ([]FrequentItem, error) {
	return s.store.FrequentItems(ctx, limit)
}

// Stats 取得清單統計，結果經快取
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cache.StatsKey()); err == nil {
			var stats Stats
			if err := common.ParseJSONBytes(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, cache.StatsKey(), data)
		}
	}
	return stats, nil
}

// seedLedger 以清單現況播種帳本
// 有溯源記錄的項目逐筆重放貢獻，手動項目以單筆引用重建，
// 回傳每個帳本鍵對應的既有資料列
func (s *Service) seedLedger(ctx context.Context, ledger *ingredient.Ledger) (map[string][]int64, error) {
	pending, err := s.store.PendingItems(ctx)
	if err != nil {
		return nil, err
	}

	rowByKey := make(map[string][]int64, len(pending))
	for _, item := range pending {
		key, _ := ledger.KeyFor(item.Name)
		if key == "" {
			// 既有資料列名稱異常，跳過而非中斷整個操作
			common.LogWarn("清單項目名稱無法正規化，略過播種",
				zap.Int64("項目", item.ID),
				zap.String("名稱", item.Name),
			)
			continue
		}
		rowByKey[key] = append(rowByKey[key], item.ID)

		if len(item.RecipeSources) > 0 {
			for _, c := range item.RecipeSources {
				if err := ledger.AddMention(ingredient.Mention{
					RawName:    item.Name,
					Quantity:   c.Quantity,
					Unit:       c.Unit,
					SourceID:   c.SourceID,
					SourceName: c.SourceName,
				}); err != nil {
					return nil, fmt.Errorf("seed ledger from item %d: %w", item.ID, err)
				}
			}
			continue
		}

		if err := ledger.AddMention(ingredient.Mention{
			RawName:    item.Name,
			Quantity:   item.Quantity,
			Unit:       item.Unit,
			SourceID:   fmt.Sprintf("item:%d", item.ID),
			SourceName: item.Name,
		}); err != nil {
			return nil, fmt.Errorf("seed ledger from item %d: %w", item.ID, err)
		}
	}
	return rowByKey, nil
}

// applyLedger 把合併快照寫回資料庫
// 既有資料列就地更新，同鍵多列者保留第一列其餘刪除，新鍵插入新列
// 回傳每個鍵最終對應的資料列 ID
func (s *Service) applyLedger(ctx context.Context, ledger *ingredient.Ledger, rowByKey map[string][]int64, category string) (map[string]int64, error) {
	snapshot := ledger.Consolidate()
	idByKey := make(map[string]int64, len(snapshot))

	for _, key := range ledger.Keys() {
		entry := snapshot[key]

		if ids := rowByKey[key]; len(ids) > 0 {
			if err := s.store.UpdateConsolidated(ctx, ids[0], entry.TotalQuantity, entry.Unit,
				entry.HasUnitMismatch, entry.Contributions); err != nil {
				return nil, err
			}
			// 近似比對把多個既有資料列折進同一個鍵
			for _, extra := range ids[1:] {
				if err := s.store.DeleteItem(ctx, extra); err != nil {
					return nil, err
				}
			}
			idByKey[key] = ids[0]
			continue
		}

		id, err := s.store.InsertItem(ctx, Item{
			Name:          entry.DisplayName,
			Category:      category,
			Quantity:      entry.TotalQuantity,
			Unit:          entry.Unit,
			UnitMismatch:  entry.HasUnitMismatch,
			RecipeSources: entry.Contributions,
		})
		if err != nil {
			return nil, err
		}
		idByKey[key] = id
	}
	return idByKey, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.StatsKey())
	}
}
