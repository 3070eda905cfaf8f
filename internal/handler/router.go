package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ragway/internal/middleware"
)

type RouterDeps struct {
	Content         *ContentHandler
	Products        *ProductHandler
	Settings        *SettingsHandler
	Health          *HealthHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/content", deps.Content.Create)
	api.GET("/content", deps.Content.List)
	api.DELETE("/content/:id", deps.Content.Delete)
	api.POST("/content/search", deps.Content.Search)
	api.POST("/content/chat", deps.Content.Chat)

	api.POST("/products/search", deps.Products.Search)
	api.POST("/products/chat", deps.Products.Chat)

	api.GET("/settings", deps.Settings.GetAll)
	api.GET("/settings/:key", deps.Settings.Get)
	api.PUT("/settings", deps.Settings.Update)

	api.GET("/health", deps.Health.Health)
	api.GET("/health/vector", deps.Health.VectorHealth)

	// reindex and catalog sync hit the embedding backend hard, throttle them
	heavy := api.Group("")
	heavy.Use(middleware.RateLimit(deps.RateLimitWindow))
	heavy.POST("/content/process", deps.Content.Process)
	heavy.POST("/products/sync", deps.Products.Sync)
	heavy.POST("/products/process", deps.Products.Process)
}
