package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeLimit 限制请求体大小。
// 超限时返回固定的 JSON 413，而不是框架默认的错误页。
// fileLimitBytes 是单文件上限，multipart 表单本身还有头部开销，
// 请求体上限在其基础上放宽 1MB。
func BodySizeLimit(fileLimitBytes int64) gin.HandlerFunc {
	bodyLimit := fileLimitBytes + 1<<20
	message := fmt.Sprintf("File is too large. Maximum allowed size is %dMB.", fileLimitBytes/1024/1024)

	return func(c *gin.Context) {
		if c.Request.ContentLength > bodyLimit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": message,
			})
			return
		}

		// Content-Length 可能缺失或撒谎，读取时再兜底一层
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)
		c.Next()
	}
}
