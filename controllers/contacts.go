package controllers

import (
	"net/http"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/repository"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// GetContacts 获取联系人列表，原样返回 HubSpot 响应
func GetContacts(c *gin.Context) {
	raw, err := repository.CRM().ListContacts(c.Request.Context())
	if err != nil {
		utils.UpstreamErrorResponse(c, err, "Failed to fetch contacts")
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

// CreateContact 创建联系人
func CreateContact(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(utils.CreateBadRequestError("请求数据格式错误: " + err.Error()))
		return
	}

	utils.LogInfo(map[string]interface{}{
		"email": req.Properties.Get("email"),
	}, "创建联系人请求")

	raw, err := repository.CRM().CreateContact(c.Request.Context(), req.Properties)
	if err != nil {
		utils.UpstreamErrorResponse(c, err, "Failed to create contact")
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}

// GetContactDeals 获取联系人关联的交易
func GetContactDeals(c *gin.Context) {
	contactID := c.Param("contactId")

	raw, err := repository.CRM().ListDealsForContact(c.Request.Context(), contactID)
	if err != nil {
		utils.UpstreamErrorResponse(c, err, "Failed to fetch deals for contact")
		return
	}
	c.Data(http.StatusOK, jsonContentType, raw)
}
