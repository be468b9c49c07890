package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiError 自定义API错误
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error 实现error接口
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError 创建API错误
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateBadRequestError 创建错误请求错误
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "")
}

// UpstreamFailure 上游返回的错误，保留状态码与错误体
type UpstreamFailure interface {
	error
	Status() int
	Details() interface{}
}

// HandleError 处理错误并返回适当的响应
func HandleError(c *gin.Context, err error) {
	if c == nil || err == nil {
		return
	}
	// 记录错误
	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, "API错误")

	// 处理API错误
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		response := gin.H{"error": apiErr.Message}
		if apiErr.ErrorCode != "" {
			response["code"] = apiErr.ErrorCode
		}
		c.JSON(apiErr.StatusCode, response)
		return
	}

	// 其他未预期的错误
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   err.Error(),
		"success": false,
	})
}

// UpstreamErrorResponse 上游调用失败：沿用上游状态码与错误体，网络错误返回 500
func UpstreamErrorResponse(c *gin.Context, err error, message string) {
	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, message)

	status := http.StatusInternalServerError
	var details interface{} = err.Error()

	var upstream UpstreamFailure
	if errors.As(err, &upstream) {
		status = upstream.Status()
		details = upstream.Details()
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": details,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, message string, statusCode int) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}
