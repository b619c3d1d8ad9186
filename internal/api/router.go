package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shoplist-generator/internal/api/handlers/health"
	shoplistHandler "shoplist-generator/internal/api/handlers/shoplist"
	"shoplist-generator/internal/api/middleware"
	"shoplist-generator/internal/core/consolidate"
	"shoplist-generator/internal/core/document"
	"shoplist-generator/internal/core/recipe"
	"shoplist-generator/internal/core/shoplist"
	"shoplist-generator/internal/infrastructure/config"
	"shoplist-generator/internal/pkg/common"
	"shoplist-generator/internal/storage"
)

const (
	// Generation includes one LLM round trip plus the PDF render, so the
	// request budget sits well above the Gemini timeout.
	timeoutDuration = 60 * time.Second
	// Recipe id payloads are tiny; 1MB leaves headroom for notes.
	maxBodySize = 1 << 20
)

// SetupRouter wires middleware, services and routes.
func SetupRouter(cfg *config.Config, recipes *recipe.Store, records storage.Store, cache *consolidate.Cache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Username"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("gemini_enabled", cfg.Gemini.Enabled),
		zap.String("model", cfg.Gemini.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	generator := consolidate.NewGeminiClient(cfg)
	consolidator := consolidate.NewService(cfg, generator, cache)
	renderer := document.NewEngine()
	listService := shoplist.NewService(cfg, recipes, consolidator, renderer, records)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)

		c.Next()

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
			return
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	handler := shoplistHandler.NewHandler(listService, records)

	api := router.Group("/api")
	{
		api.POST("/shopping-list", handler.Generate)
		api.GET("/shopping-lists", handler.List)
		api.PUT("/shopping-lists/:id/notes", handler.UpdateNotes)
	}

	// Generated documents are served straight from the output directory.
	router.Static(cfg.Storage.PublicBase, cfg.Storage.OutputDir)

	return router, nil
}
