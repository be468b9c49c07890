package routes

import (
	"github.com/BerniceZTT/breezy_end/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAIRoutes 注册 AI 分析路由
func RegisterAIRoutes(api *gin.RouterGroup) {
	aiRoutes := api.Group("/ai")

	// 分析
	aiRoutes.POST("/analyse-customer", controllers.AnalyseCustomer)
	aiRoutes.POST("/analyse-business", controllers.AnalyseBusiness)

	// 状态与模型
	aiRoutes.GET("/status", controllers.AIStatus)
	aiRoutes.GET("/models", controllers.AIModels)
}
