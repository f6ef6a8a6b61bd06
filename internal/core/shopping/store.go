package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/pkg/common"
)

// ErrItemNotFound 指定的清單項目不存在
var ErrItemNotFound = errors.New("shopping list item not found")

// Store 購物清單的 SQLite 持久層
type Store struct {
	db *sql.DB
}

// NewStore 建立持久層並確保資料表存在
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS shopping_list (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			normalized_name TEXT NOT NULL DEFAULT '',
			category TEXT DEFAULT 'Divers',
			quantity_decimal REAL NOT NULL DEFAULT 1,
			unit TEXT DEFAULT 'unité',
			checked BOOLEAN DEFAULT 0,
			unit_mismatch BOOLEAN DEFAULT 0,
			recipe_sources TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS frequent_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			category TEXT,
			usage_count INTEGER DEFAULT 1,
			last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shopping_checked ON shopping_list(checked)`,
		`CREATE INDEX IF NOT EXISTS idx_shopping_normalized ON shopping_list(normalized_name)`,
		`CREATE INDEX IF NOT EXISTS idx_frequent_usage ON frequent_items(usage_count DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure shopping schema: %w", err)
		}
	}
	return nil
}

// ListItems 回傳清單項目，未勾選在前，再依分類與名稱排序
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, normalized_name, category, quantity_decimal, unit,
		       checked, unit_mismatch, recipe_sources, created_at, updated_at
		FROM shopping_list
		ORDER BY checked ASC, category, name`)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PendingItems 回傳尚未勾選的項目，合併作業以此為既有狀態
func (s *Store) PendingItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, normalized_name, category, quantity_decimal, unit,
		       checked, unit_mismatch, recipe_sources, created_at, updated_at
		FROM shopping_list
		WHERE checked = 0
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pending items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItem 依 ID 取得項目
func (s *Store) GetItem(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, normalized_name, category, quantity_decimal, unit,
		       checked, unit_mismatch, recipe_sources, created_at, updated_at
		FROM shopping_list
		WHERE id = ?`, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// InsertItem 新增項目並回傳 ID
func (s *Store) InsertItem(ctx context.Context, item Item) (int64, error) {
	sources, err := marshalSources(item.RecipeSources)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shopping_list
			(name, normalized_name, category, quantity_decimal, unit, checked, unit_mismatch, recipe_sources)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.NormalizedName(), item.Category, item.Quantity, item.Unit,
		item.Checked, item.UnitMismatch, sources)
	if err != nil {
		return 0, fmt.Errorf("insert shopping item: %w", err)
	}
	return res.LastInsertId()
}

// UpdateConsolidated 以合併結果覆寫既有項目的數量、單位與溯源記錄
func (s *Store) UpdateConsolidated(ctx context.Context, id int64, quantity float64, unit string, mismatch bool, sources []ingredient.Contribution) error {
	data, err := marshalSources(sources)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE shopping_list
		SET quantity_decimal = ?, unit = ?, unit_mismatch = ?, recipe_sources = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		quantity, unit, mismatch, data, id)
	if err != nil {
		return fmt.Errorf("update consolidated item: %w", err)
	}
	return requireRow(res)
}

// SetChecked 勾選或取消勾選項目
func (s *Store) SetChecked(ctx context.Context, id int64, checked bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shopping_list
		SET checked = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, checked, id)
	if err != nil {
		return fmt.Errorf("set item checked: %w", err)
	}
	return requireRow(res)
}

// DeleteItem 刪除項目
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shopping_list WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping item: %w", err)
	}
	return requireRow(res)
}

// ClearChecked 清除所有已勾選的項目，回傳刪除筆數
func (s *Store) ClearChecked(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shopping_list WHERE checked = 1`)
	if err != nil {
		return 0, fmt.Errorf("clear checked items: %w", err)
	}
	return res.RowsAffected()
}

// TouchFrequentItem 記錄一次使用，名稱已存在則累加次數
func (s *Store) TouchFrequentItem(ctx context.Context, name, category string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO frequent_items (name, category, usage_count, last_used)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			usage_count = usage_count + 1,
			last_used = CURRENT_TIMESTAMP`,
		name, category)
	if err != nil {
		return fmt.Errorf("touch frequent item: %w", err)
	}
	return nil
}

// FrequentItems 回傳最常使用的項目
func (s *Store) FrequentItems(ctx context.Context, limit int) ([]FrequentItem, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COALESCE(category, ''), usage_count, last_used
		FROM frequent_items
		ORDER BY usage_count DESC, last_used DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list frequent items: %w", err)
	}
	defer rows.Close()

	var items []FrequentItem
	for rows.Next() {
		var fi FrequentItem
		var lastUsed string
		if err := rows.Scan(&fi.Name, &fi.Category, &fi.UsageCount, &lastUsed); err != nil {
			return nil, fmt.Errorf("scan frequent item: %w", err)
		}
		fi.LastUsed = parseTimestamp(lastUsed)
		items = append(items, fi)
	}
	return items, rows.Err()
}

// Stats 回傳清單整體統計
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(checked), 0)
		FROM shopping_list`)

	var total, checked int
	if err := row.Scan(&total, &checked); err != nil {
		return nil, fmt.Errorf("scan shopping stats: %w", err)
	}

	stats := &Stats{
		TotalItems:   total,
		CheckedItems: checked,
		PendingItems: total - checked,
	}
	if total > 0 {
		stats.CheckedRatio = float64(checked) / float64(total)
	}
	return stats, nil
}

var storeNormalizer = ingredient.NewNormalizer()

// NormalizedName 項目名稱的正規化鍵，寫入時計算
func (i Item) NormalizedName() string {
	return storeNormalizer.Normalize(i.Name)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (Item, error) {
	var item Item
	var normalized string
	var sources sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&item.ID, &item.Name, &normalized, &item.Category,
		&item.Quantity, &item.Unit, &item.Checked, &item.UnitMismatch,
		&sources, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, sql.ErrNoRows
		}
		return Item{}, fmt.Errorf("scan shopping item: %w", err)
	}

	if sources.Valid && sources.String != "" {
		if err := common.ParseJSON(sources.String, &item.RecipeSources); err != nil {
			return Item{}, fmt.Errorf("parse recipe sources: %w", err)
		}
	}
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return item, nil
}

func marshalSources(sources []ingredient.Contribution) (string, error) {
	if len(sources) == 0 {
		return "", nil
	}
	data, err := json.Marshal(sources)
	if err != nil {
		return "", fmt.Errorf("marshal recipe sources: %w", err)
	}
	return string(data), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// parseTimestamp 解析 SQLite 的時間欄位，格式不符時回傳零值
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
