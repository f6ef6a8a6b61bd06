package shopping

import (
	"errors"
	"net/http"
	"strconv"

	"smart-shopping/internal/core/ingredient"
	recipeService "smart-shopping/internal/core/recipe"
	shoppingService "smart-shopping/internal/core/shopping"
	"smart-shopping/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 購物清單相關路由的處理器
type Handler struct {
	service   *shoppingService.Service
	recipes   *recipeService.Service
	converter *ingredient.Converter
}

// NewHandler 建立處理器，recipes 供統計端點計算食譜總數
func NewHandler(service *shoppingService.Service, recipes *recipeService.Service) *Handler {
	return &Handler{
		service:   service,
		recipes:   recipes,
		converter: ingredient.NewConverter(),
	}
}

// addItemRequest 加入單一項目的請求
type addItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// consolidateRequest 批次合併的請求
type consolidateRequest struct {
	Recipe struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Ingredients []struct {
			Name     string  `json:"name"`
			Quantity float64 `json:"quantity"`
			Unit     string  `json:"unit"`
		} `json:"ingredients"`
	} `json:"recipe"`
}

// List 取得購物清單，include_checked=false 時隱藏已勾選項目
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	includeChecked := common.ParseBoolQuery(c.Query("include_checked"), true)

	views := make([]common.ShoppingItemView, 0, len(items))
	for _, item := range items {
		if !includeChecked && item.Checked {
			continue
		}
		views = append(views, h.itemView(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": views,
			"count": len(views),
		},
	})
}

// Add 加入單一項目
func (h *Handler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "nom d'article requis",
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.service.AddItem(c.Request.Context(), req.Name, req.Quantity, req.Unit, req.Category)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := gin.H{
		"success": true,
		"action":  result.Action,
		"item_id": result.ItemID,
	}
	if result.Item != nil {
		response["item"] = h.itemView(*result.Item)
	}
	c.JSON(http.StatusCreated, response)
}

// ConsolidateAndAdd 整道食譜的食材批次併入清單
func (h *Handler) ConsolidateAndAdd(c *gin.Context) {
	var req consolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Recipe.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "recette avec ingrédients requise",
		})
		return
	}

	sourceID := req.Recipe.ID
	if sourceID == "" {
		sourceID = common.GenerateUUID()
	}
	sourceName := req.Recipe.Name
	if sourceName == "" {
		sourceName = "Recette"
	}

	mentions := make([]ingredient.Mention, 0, len(req.Recipe.Ingredients))
	for _, ing := range req.Recipe.Ingredients {
		qty := ing.Quantity
		if qty == 0 {
			qty = 1
		}
		unit := ing.Unit
		if unit == "" {
			unit = ingredient.BaseUnitCount
		}
		mentions = append(mentions, ingredient.Mention{
			RawName:    ing.Name,
			Quantity:   qty,
			Unit:       unit,
			SourceID:   sourceID,
			SourceName: sourceName,
		})
	}

	report, err := h.service.ConsolidateAndAdd(c.Request.Context(), mentions)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  batchReportView(report),
	})
}

// Check 勾選或取消勾選項目
func (h *Handler) Check(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "identifiant invalide",
		})
		return
	}

	var req struct {
		Checked *bool `json:"checked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "champ checked requis",
		})
		return
	}

	if err := h.service.SetChecked(c.Request.Context(), id, *req.Checked); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete 刪除項目
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "identifiant invalide",
		})
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearChecked 清除所有已勾選項目
func (h *Handler) ClearChecked(c *gin.Context) {
	n, err := h.service.ClearChecked(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": n,
	})
}

// FrequentItems 常買項目
func (h *Handler) FrequentItems(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.service.FrequentItems(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]common.FrequentItemView, 0, len(items))
	for _, item := range items {
		views = append(views, common.FrequentItemView{
			Name:  item.Name,
			Count: item.UsageCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

// Stats 清單統計
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	view := common.StatsView{
		TotalItems:   stats.TotalItems,
		CheckedItems: stats.CheckedItems,
		PendingItems: stats.PendingItems,
		CheckedRatio: stats.CheckedRatio,
	}

	// 附帶資訊取不到時照樣回統計，只記警告
	if n, err := h.recipes.Count(c.Request.Context()); err == nil {
		view.TotalRecipes = n
	} else {
		common.LogWarn("統計食譜總數失敗", zap.Error(err))
	}
	if frequent, err := h.service.FrequentItems(c.Request.Context(), 5); err == nil {
		for _, item := range frequent {
			view.FrequentItems = append(view.FrequentItems, common.FrequentItemView{
				Name:  item.Name,
				Count: item.UsageCount,
			})
		}
	} else {
		common.LogWarn("統計常買項目失敗", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// itemView 轉成 API 視圖，數量跨過門檻時升級顯示單位
func (h *Handler) itemView(item shoppingService.Item) common.ShoppingItemView {
	qty, unit := h.converter.BestDisplayUnit(item.Quantity, item.Unit)

	view := common.ShoppingItemView{
		ID:           item.ID,
		Item:         item.Name,
		Quantity:     qty,
		Unit:         unit,
		Checked:      item.Checked,
		Consolidated: len(item.RecipeSources) > 1,
		UnitMismatch: item.UnitMismatch,
	}
	for _, src := range item.RecipeSources {
		view.RecipeSources = append(view.RecipeSources, common.RecipeSourceView{
			RecipeID:   src.SourceID,
			RecipeName: src.SourceName,
			Quantity:   src.Quantity,
			Unit:       src.Unit,
		})
	}
	return view
}

// batchReportView 批次結果的 API 視圖
func batchReportView(report *ingredient.BatchReport) common.ConsolidateReportView {
	view := common.ConsolidateReportView{
		Total:    report.Total,
		Accepted: report.Accepted,
		Created:  report.CreatedCount,
		Merged:   report.MergedCount,
	}
	for _, e := range report.Errors {
		view.Errors = append(view.Errors, common.ConsolidateLineErr{
			Index:   e.Index,
			RawName: e.RawName,
			Message: e.Message,
		})
	}
	return view
}

// respondError 將服務層錯誤對應到預定義的錯誤碼
func (h *Handler) respondError(c *gin.Context, err error) {
	var ce *common.CustomError
	switch {
	case errors.Is(err, ingredient.ErrInvalidIngredientName):
		ce = common.ErrInvalidIngredientName
	case errors.Is(err, ingredient.ErrInvalidQuantity):
		ce = common.ErrInvalidQuantity
	case errors.Is(err, shoppingService.ErrItemNotFound):
		ce = common.ErrItemNotFound
	default:
		common.LogError("清單操作失敗",
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
