package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
)

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径（只读的 AI 分析不产生上游记录）
var excludedPaths = map[string]bool{
	"/health":                  true,
	"/api/ai/analyse-customer": true,
	"/api/ai/analyse-business": true,
}

// OperationLog 一次写操作的记录
type OperationLog struct {
	RequestID     string      `json:"requestId"`
	Method        string      `json:"method"`
	Path          string      `json:"path"`
	RequestBody   interface{} `json:"requestBody,omitempty"`
	ResponseData  interface{} `json:"responseData,omitempty"`
	StatusCode    int         `json:"statusCode"`
	Success       bool        `json:"success"`
	OperationTime time.Time   `json:"operationTime"`
	ResponseTime  int64       `json:"responseTime"`
	IPAddress     string      `json:"ipAddress"`
	UserAgent     string      `json:"userAgent"`
}

// OperationSink 操作日志的去向
type OperationSink func(log *OperationLog)

// OperationLoggerMiddleware 操作日志记录中间件，写入 CRM 的请求都会留痕
func OperationLoggerMiddleware(sinks ...OperationSink) gin.HandlerFunc {
	if len(sinks) == 0 {
		sinks = []OperationSink{logOperation}
	}
	return func(c *gin.Context) {
		// 检查是否需要记录此操作
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()

		// 创建自定义响应写入器以捕获响应体
		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		// 读取并重置请求体
		var requestBody interface{}
		if c.Request.Body != nil {
			requestBodyBytes, err := io.ReadAll(c.Request.Body)
			if err != nil {
				utils.Logger.Error().Err(err).Msg("读取请求体失败")
			} else {
				c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
				requestBody = decodeBody(requestBodyBytes, c.Request.Header.Get("Content-Type"))
			}
		}

		c.Next()

		operationLog := &OperationLog{
			RequestID:     RequestID(c),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			RequestBody:   sanitizeData(requestBody),
			ResponseData:  sanitizeData(decodeBody(blw.body.Bytes(), c.Writer.Header().Get("Content-Type"))),
			StatusCode:    c.Writer.Status(),
			Success:       c.Writer.Status() < http.StatusBadRequest,
			OperationTime: startTime,
			ResponseTime:  time.Since(startTime).Milliseconds(),
			IPAddress:     getClientIP(c),
			UserAgent:     c.Request.UserAgent(),
		}
		for _, sink := range sinks {
			sink(operationLog)
		}
	}
}

// logOperation 默认写入日志
func logOperation(log *OperationLog) {
	event := utils.Logger.Info()
	if !log.Success {
		event = utils.Logger.Warn()
	}
	event.
		Str("requestId", log.RequestID).
		Str("method", log.Method).
		Str("path", log.Path).
		Int("status", log.StatusCode).
		Int64("responseTime", log.ResponseTime).
		Str("ip", log.IPAddress).
		Interface("request", log.RequestBody).
		Interface("response", log.ResponseData).
		Msg("操作日志")
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if _, excluded := excludedPaths[c.Request.URL.Path]; excluded {
		return false
	}
	return loggedMethods[c.Request.Method]
}

func decodeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}
	if strings.Contains(contentType, "application/json") {
		var v interface{}
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
		utils.Logger.Warn().Msg("解析JSON请求体失败")
	}
	return string(body)
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	if data == nil {
		return nil
	}

	// 处理map类型
	if m, ok := data.(map[string]interface{}); ok {
		sanitized := make(map[string]interface{})
		for k, v := range m {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key", "email", "phone":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(v)
			}
		}
		return sanitized
	}

	// 处理切片类型
	if s, ok := data.([]interface{}); ok {
		sanitized := make([]interface{}, len(s))
		for i, v := range s {
			sanitized[i] = sanitizeData(v)
		}
		return sanitized
	}

	return data
}

// getClientIP 获取客户端IP地址
func getClientIP(c *gin.Context) string {
	if ip := c.Request.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
