package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	resp "realestate-crm/internal/transport/http/response"
)

// Timeout 给请求上下文加截止时间，gorm 查询随 ctx 取消。
// skip 里的前缀（如 /metrics）不受限制
func Timeout(d time.Duration, skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range skip {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			countRejected("timeout")
			if !c.Writer.Written() {
				resp.Abort(c, http.StatusGatewayTimeout, "")
			}
		}
	}
}
