package recipes

import (
	"errors"
	"net/http"
	"strconv"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/core/recipe"
	"smart-shopping/internal/core/scraper"
	"smart-shopping/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜相關路由的處理器
type Handler struct {
	recipes *recipe.Service
	scraper *scraper.Service
}

// NewHandler 建立處理器
func NewHandler(recipes *recipe.Service, sc *scraper.Service) *Handler {
	return &Handler{
		recipes: recipes,
		scraper: sc,
	}
}

// searchRequest 外部食譜搜尋的請求
type searchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// createRecipeRequest 建立本地食譜的請求
type createRecipeRequest struct {
	Name        string   `json:"name" binding:"required"`
	Source      string   `json:"source"`
	URL         string   `json:"url"`
	Ingredients []string `json:"ingredients" binding:"required"`
	Servings    int      `json:"servings"`
	PrepTime    int      `json:"prep_time"`
	Difficulty  string   `json:"difficulty"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
}

// Search 搜尋外部食譜來源
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "query de recherche requise",
		})
		return
	}

	result, err := h.scraper.Search(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// Create 建立本地食譜
func (h *Handler) Create(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "nom et ingrédients requis",
		})
		return
	}

	created, err := h.recipes.Create(c.Request.Context(), recipe.Recipe{
		Name:        req.Name,
		Source:      req.Source,
		URL:         req.URL,
		Ingredients: req.Ingredients,
		Servings:    req.Servings,
		PrepTime:    req.PrepTime,
		Difficulty:  req.Difficulty,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"recipe":  created,
	})
}

// List 列出本地食譜，query 參數 q 可做名稱模糊搜尋
func (h *Handler) List(c *gin.Context) {
	var (
		items []recipe.Recipe
		err   error
	)
	if q := c.Query("q"); q != "" {
		items, err = h.recipes.Search(c.Request.Context(), q)
	} else {
		items, err = h.recipes.List(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"recipes": items,
			"count":   len(items),
		},
	})
}

// Get 取得單一食譜
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "identifiant invalide",
		})
		return
	}

	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"recipe":  r,
	})
}

// Delete 刪除食譜
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "identifiant invalide",
		})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddToList 解析食譜食材並併入購物清單
func (h *Handler) AddToList(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "identifiant invalide",
		})
		return
	}

	report, err := h.recipes.AddToList(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

// respondError 將服務層錯誤對應到預定義的錯誤碼
func (h *Handler) respondError(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	var ce *common.CustomError
	switch {
	case errors.Is(err, ingredient.ErrInvalidIngredientName):
		ce = common.ErrInvalidIngredientName
	case errors.Is(err, recipe.ErrRecipeNotFound):
		ce = common.ErrRecipeNotFound
	case errors.Is(err, common.ErrScraperUnavailable):
		ce = common.ErrScraperUnavailable
	default:
		common.LogError("食譜操作失敗",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		ce = common.ErrInternalServer
	}
	c.JSON(ce.Status, gin.H{
		"success": false,
		"error":   ce.Message,
		"code":    ce.Code,
	})
}
