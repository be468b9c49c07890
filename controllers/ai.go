package controllers

import (
	"net/http"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/service"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
)

// AnalyseCustomer 单客户 AI 分析
func AnalyseCustomer(c *gin.Context) {
	var req models.AnalyseCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Contact == nil || req.Deals == nil {
		c.Error(utils.CreateBadRequestError("Contact and deals data are required"))
		return
	}

	utils.LogInfo(map[string]interface{}{
		"contactId": req.Contact.ID,
		"deals":     len(req.Deals),
	}, "客户分析请求")

	c.JSON(http.StatusOK, service.AI().AnalyseCustomer(c.Request.Context(), &req))
}

// AnalyseBusiness 整体业务 AI 分析
func AnalyseBusiness(c *gin.Context) {
	var req models.AnalyseBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Contacts == nil || req.Deals == nil {
		c.Error(utils.CreateBadRequestError("Contacts and deals data are required"))
		return
	}

	utils.LogInfo(map[string]interface{}{
		"contacts": len(req.Contacts),
		"deals":    len(req.Deals),
	}, "业务分析请求")

	c.JSON(http.StatusOK, service.AI().AnalyseBusiness(c.Request.Context(), req.Contacts, req.Deals))
}

// AIStatus 检查 AI 服务是否可用
func AIStatus(c *gin.Context) {
	status, err := service.AI().Status(c.Request.Context())
	if err != nil {
		utils.LogError(err, nil, "AI服务状态检查失败")
		c.JSON(http.StatusInternalServerError, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// AIModels 列出可用模型，失败时返回空列表
func AIModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": service.AI().Models(c.Request.Context())})
}
