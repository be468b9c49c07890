package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// requestIDKey gin 上下文中的请求ID键
const requestIDKey = "requestId"

// bodyLogWriter 用于记录响应内容
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现 ResponseWriter 接口
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestID 获取当前请求ID
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger 日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		// 记录请求头
		headers := make(map[string]string)
		for k, v := range c.Request.Header {
			if len(v) > 0 {
				headers[k] = v[0]
			}
		}

		// 记录请求体
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// 恢复请求体以便后续处理
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// 创建响应体捕获器
		blw := &bodyLogWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = blw

		utils.LogApiRequest(
			requestID,
			method,
			path,
			c.Request.URL.Query(),
			string(requestBody),
			headers,
		)

		c.Next()

		utils.LogApiResponse(
			requestID,
			method,
			path,
			c.Writer.Status(),
			time.Since(start),
			blw.body.String(),
		)
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// 记录崩溃信息
		utils.Logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Str("requestId", RequestID(c)).
			Msg("服务崩溃")

		// 返回500错误
		utils.ErrorResponse(c, "Internal server error", http.StatusInternalServerError)
		c.Abort()
	})
}
