package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRecipeNotFound 指定的食譜不存在
var ErrRecipeNotFound = errors.New("recipe not found")

// Store 食譜的 SQLite 持久層
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
		`CREATE TABLE IF NOT EXISTS recipes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			source TEXT,
			url TEXT,
			ingredients TEXT,
			servings INTEGER DEFAULT 4,
			prep_time INTEGER DEFAULT 30,
			difficulty TEXT DEFAULT 'Moyen',
			image_url TEXT,
			tags TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recipes_name ON recipes(name)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure recipe schema: %w", err)
		}
	}
	return nil
}

// Insert 新增食譜並回傳 ID
func (s *Store) Insert(ctx context.Context, r Recipe) (int64, error) {
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return 0, fmt.Errorf("marshal ingredients: %w", err)
	}
	tags, err := json.Marshal(r.Tags)
	if err != nil {
		return 0, fmt.Errorf("marshal tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (name, source, url, ingredients, servings, prep_time, difficulty, image_url, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Source, r.URL, string(ingredients), r.Servings, r.PrepTime,
		r.Difficulty, r.ImageURL, string(tags))
	if err != nil {
		return 0, fmt.Errorf("insert recipe: %w", err)
	}
	return res.LastInsertId()
}

// Get 依 ID 取得食譜
func (s *Store) Get(ctx context.Context, id int64) (*Recipe, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(source, ''), COALESCE(url, ''), COALESCE(ingredients, '[]'),
		       servings, prep_time, COALESCE(difficulty, ''), COALESCE(image_url, ''),
		       COALESCE(tags, '[]'), created_at
		FROM recipes
		WHERE id = ?`, id)

	r, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &r, nil
}

// List 回傳所有食譜，最新在前
func (s *Store) List(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(source, ''), COALESCE(url, ''), COALESCE(ingredients, '[]'),
		       servings, prep_time, COALESCE(difficulty, ''), COALESCE(image_url, ''),
		       COALESCE(tags, '[]'), created_at
		FROM recipes
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// SearchByName 以名稱模糊比對搜尋本地食譜
func (s *Store) SearchByName(ctx context.Context, query string) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(source, ''), COALESCE(url, ''), COALESCE(ingredients, '[]'),
		       servings, prep_time, COALESCE(difficulty, ''), COALESCE(image_url, ''),
		       COALESCE(tags, '[]'), created_at
		FROM recipes
		WHERE name LIKE ? COLLATE NOCASE
		ORDER BY name`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// Delete 刪除食譜
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// Count 食譜總數，供統計使用
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (Recipe, error) {
	var r Recipe
	var ingredients, tags, createdAt string

	if err := row.Scan(&r.ID, &r.Name, &r.Source, &r.URL, &ingredients,
		&r.Servings, &r.PrepTime, &r.Difficulty, &r.ImageURL, &tags, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, sql.ErrNoRows
		}
		return Recipe{}, fmt.Errorf("scan recipe: %w", err)
	}

	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return Recipe{}, fmt.Errorf("parse ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
		return Recipe{}, fmt.Errorf("parse tags: %w", err)
	}
	r.CreatedAt = parseTimestamp(createdAt)
	return r, nil
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
