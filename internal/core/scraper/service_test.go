package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart-shopping/internal/infrastructure/cache"
	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name string
	docs []common.RecipeDocument
	err  error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(ctx context.Context, query string, limit int) ([]common.RecipeDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func doc(name, source string) common.RecipeDocument {
	return common.RecipeDocument{
		Name:        name,
		Source:      source,
		Ingredients: []string{"300g " + name},
	}
}

func TestSearchMergesSourcesInOrder(t *testing.T) {
	svc := NewServiceWith([]Source{
		&fakeSource{name: "a", docs: []common.RecipeDocument{doc("Carbonara", "a"), doc("Gratin", "a")}},
		&fakeSource{name: "b", docs: []common.RecipeDocument{doc("Quiche", "b")}},
	}, NewBuiltinSource(), nil, 2)

	result, err := svc.Search(context.Background(), "test", 8)
	require.NoError(t, err)
	assert.Equal(t, "scraping", result.Source)
	require.Equal(t, 3, result.Count)
	assert.Equal(t, "Carbonara", result.Recipes[0].Name)
	assert.Equal(t, "Quiche", result.Recipes[2].Name)
}

func TestSearchDeduplicatesAcrossSources(t *testing.T) {
	svc := NewServiceWith([]Source{
		&fakeSource{name: "a", docs: []common.RecipeDocument{doc("Carbonara", "a")}},
		&fakeSource{name: "b", docs: []common.RecipeDocument{doc("carbonara", "b"), doc("Quiche", "b")}},
	}, NewBuiltinSource(), nil, 2)

	result, err := svc.Search(context.Background(), "carbonara", 8)
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	// 同名食譜保留順位在前的來源
	assert.Equal(t, "a", result.Recipes[0].Source)
}

func TestSearchToleratesFailingSource(t *testing.T) {
	svc := NewServiceWith([]Source{
		&fakeSource{name: "broken", err: errors.New("connection refused")},
		&fakeSource{name: "b", docs: []common.RecipeDocument{doc("Quiche", "b")}},
	}, NewBuiltinSource(), nil, 2)

	result, err := svc.Search(context.Background(), "quiche", 8)
	require.NoError(t, err)
	assert.Equal(t, "scraping", result.Source)
	assert.Equal(t, 1, result.Count)
}

func TestSearchFallsBackWhenAllSourcesFail(t *testing.T) {
	svc := NewServiceWith([]Source{
		&fakeSource{name: "broken", err: errors.New("connection refused")},
	}, NewBuiltinSource(), nil, 1)

	result, err := svc.Search(context.Background(), "poulet", 8)
	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Source)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Recette au poulet", result.Recipes[0].Name)
	assert.Contains(t, result.Recipes[0].Ingredients, "300g poulet")
}

func TestSearchRespectsLimit(t *testing.T) {
	svc := NewServiceWith([]Source{
		&fakeSource{name: "a", docs: []common.RecipeDocument{
			doc("Un", "a"), doc("Deux", "a"), doc("Trois", "a"),
		}},
	}, NewBuiltinSource(), nil, 1)

	result, err := svc.Search(context.Background(), "plat", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewServiceWith(nil, NewBuiltinSource(), nil, 1)

	_, err := svc.Search(context.Background(), "   ", 8)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestSearchUsesCache(t *testing.T) {
	c := cache.NewMemoryCache(config.CacheConfig{
		Enabled:         true,
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = c.Close() })

	calls := 0
	src := &countingSource{docs: []common.RecipeDocument{doc("Carbonara", "a")}, calls: &calls}
	svc := NewServiceWith([]Source{src}, NewBuiltinSource(), c, 1)

	first, err := svc.Search(context.Background(), "carbonara", 8)
	require.NoError(t, err)
	assert.Equal(t, "scraping", first.Source)

	second, err := svc.Search(context.Background(), "Carbonara ", 8)
	require.NoError(t, err)
	assert.Equal(t, "cache", second.Source)
	assert.Equal(t, 1, calls)
}

type countingSource struct {
	docs  []common.RecipeDocument
	calls *int
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Search(ctx context.Context, query string, limit int) ([]common.RecipeDocument, error) {
	*c.calls++
	return c.docs, nil
}
