package routes

import (
	"github.com/BerniceZTT/breezy_end/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterDealRoutes 注册交易路由
func RegisterDealRoutes(api *gin.RouterGroup) {
	dealRoutes := api.Group("/deals")

	dealRoutes.GET("", controllers.GetDeals)
	dealRoutes.POST("", controllers.CreateDeal)
}
