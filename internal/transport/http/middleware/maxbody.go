package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "realestate-crm/internal/transport/http/response"
)

// MaxBodyBytes 声明的 Content-Length 超限直接 413；
// chunked 等未声明长度的请求在绑定读到第 n+1 字节时失败，由 ez 转成 413
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			countRejected("body_too_large")
			resp.Abort(c, http.StatusRequestEntityTooLarge, "")
			return
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
