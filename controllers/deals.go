package controllers

import (
	"net/http"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/repository"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
)

// GetDeals 获取交易列表
func GetDeals(c *gin.Context) {
	raw, err := repository.CRM().ListDeals(c.Request.Context())
	if err != nil {
		utils.UpstreamErrorResponse(c, err, "Failed to fetch deals")
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

// CreateDeal 创建交易，可选关联联系人
func CreateDeal(c *gin.Context) {
	var req models.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(utils.CreateBadRequestError("请求数据格式错误: " + err.Error()))
		return
	}

	utils.LogInfo(map[string]interface{}{
		"dealname":  req.DealProperties.Get("dealname"),
		"contactId": req.ContactID,
	}, "创建交易请求")

	raw, err := repository.CRM().CreateDeal(c.Request.Context(), req.DealProperties, req.ContactID)
	if err != nil {
		utils.UpstreamErrorResponse(c, err, "Failed to create deal")
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}
