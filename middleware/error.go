package middleware

import (
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 渲染处理器通过 c.Error 记录的错误，已写出响应的请求不再处理
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		utils.HandleError(c, c.Errors.Last().Err)
	}
}
