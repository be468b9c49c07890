package routes

import (
	"os"

	"github.com/BerniceZTT/breezy_end/config"
	"github.com/BerniceZTT/breezy_end/controllers"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, cfg *config.Config) {
	// 健康检查路由
	router.GET("/health", controllers.Health)

	api := router.Group("/api")

	// 注册 CRM 代理路由
	RegisterContactRoutes(api)
	RegisterDealRoutes(api)

	// 注册 AI 路由
	RegisterAIRoutes(api)

	// 静态页面
	if cfg != nil && cfg.PublicDir != "" {
		if info, err := os.Stat(cfg.PublicDir); err == nil && info.IsDir() {
			router.Static("/public", cfg.PublicDir)
			utils.Logger.Info().Str("dir", cfg.PublicDir).Msg("已挂载静态目录")
		}
	}
}
