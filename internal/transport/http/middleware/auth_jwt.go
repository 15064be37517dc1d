package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/domain"
	resp "realestate-crm/internal/transport/http/response"
)

const KeyActor = "actor"

// AuthJWT 校验 Bearer token，把调用者写入上下文
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			CountAuthFailure("missing_token")
			resp.Abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			CountAuthFailure("invalid_token")
			resp.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(KeyActor, claims.Actor())
		c.Next()
	}
}

// RequireRole 必须挂在 AuthJWT 之后
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := ActorFrom(c)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if a.Role == r {
				c.Next()
				return
			}
		}
		CountAuthFailure("forbidden")
		resp.Abort(c, http.StatusForbidden, "Access denied")
	}
}

func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(KeyActor)
	if !ok {
		return domain.Actor{}, false
	}
	a, ok := v.(domain.Actor)
	return a, ok
}
