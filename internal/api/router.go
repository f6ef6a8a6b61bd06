package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"smart-shopping/internal/api/handlers/health"
	recipesHandler "smart-shopping/internal/api/handlers/recipes"
	shoppingHandler "smart-shopping/internal/api/handlers/shopping"
	"smart-shopping/internal/api/middleware"
	recipeService "smart-shopping/internal/core/recipe"
	"smart-shopping/internal/core/scraper"
	shoppingService "smart-shopping/internal/core/shopping"
	"smart-shopping/internal/infrastructure/cache"
	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 超時設置
const timeoutDuration = 30 * time.Second

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 重複請求過濾
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("scraper_enabled", cfg.Scraper.Enabled),
		zap.String("database_path", cfg.Database.Path),
	)

	// 初始化快取（未啟用時為 nil，服務直接查庫）
	appCache := cache.NewCache(cfg)

	// 初始化購物清單服務
	shoppingStore, err := shoppingService.NewStore(db)
	if err != nil {
		common.LogError("Failed to initialize shopping store", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize shopping store: %w", err)
	}
	shoppingSvc := shoppingService.NewService(shoppingStore, appCache)

	// 初始化食譜服務
	recipeStore, err := recipeService.NewStore(db)
	if err != nil {
		common.LogError("Failed to initialize recipe store", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize recipe store: %w", err)
	}
	recipeSvc := recipeService.NewService(recipeStore, shoppingSvc)

	// 初始化抓取服務
	scraperSvc := scraper.NewService(cfg, appCache)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// 設置配置供健康檢查使用
		c.Set("config", cfg)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(db))
	router.GET("/live", health.LivenessCheck)

	shoppingH := shoppingHandler.NewHandler(shoppingSvc, recipeSvc)
	recipesH := recipesHandler.NewHandler(recipeSvc, scraperSvc)

	// 每條路由各自的額度；限流關閉時換成直通中間件
	routeLimit := func(requests int) gin.HandlerFunc {
		if !cfg.RateLimit.Enabled {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(requests, time.Minute)
	}
	addLimit := routeLimit(cfg.RateLimit.AddPerMinute)
	searchLimit := routeLimit(cfg.RateLimit.SearchPerMinute)
	consolidateLimit := routeLimit(cfg.RateLimit.ConsolidatePerMin)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 購物清單
		listGroup := api.Group("/shopping-list")
		{
			listGroup.GET("", shoppingH.List)
			listGroup.POST("", addLimit, shoppingH.Add)
			listGroup.PUT("/:id/check", shoppingH.Check)
			listGroup.DELETE("/:id", shoppingH.Delete)
			listGroup.DELETE("/checked", shoppingH.ClearChecked)
		}

		// 批次合併
		api.POST("/intelligent/consolidate-and-add", consolidateLimit, shoppingH.ConsolidateAndAdd)

		// 食譜
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/search", searchLimit, recipesH.Search)
			recipeGroup.GET("", recipesH.List)
			recipeGroup.POST("", recipesH.Create)
			recipeGroup.GET("/:id", recipesH.Get)
			recipeGroup.DELETE("/:id", recipesH.Delete)
			recipeGroup.POST("/:id/add-to-list", consolidateLimit, recipesH.AddToList)
		}

		// 統計與常買項目
		api.GET("/frequent-items", shoppingH.FrequentItems)
		api.GET("/stats", shoppingH.Stats)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_initialized", appCache != nil),
		zap.Bool("scraper_enabled", cfg.Scraper.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
