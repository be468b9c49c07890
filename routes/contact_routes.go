package routes

import (
	"github.com/BerniceZTT/breezy_end/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterContactRoutes 注册联系人路由
func RegisterContactRoutes(api *gin.RouterGroup) {
	contactRoutes := api.Group("/contacts")

	// 获取联系人列表
	contactRoutes.GET("", controllers.GetContacts)

	// 创建联系人
	contactRoutes.POST("", controllers.CreateContact)

	// 获取联系人关联的交易
	contactRoutes.GET("/:contactId/deals", controllers.GetContactDeals)
}
