package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件。
// path 记录路由模板（如 /api/files/:id），和 metrics 的 path 标签一致，
// 日志里不出现具体文件 id。
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		log.Printf("[%s] %s %s %d %dB %v",
			c.Request.Method,
			c.ClientIP(),
			route,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
		)
	}
}
