package ez

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
	mdw "realestate-crm/internal/transport/http/middleware"
	resp "realestate-crm/internal/transport/http/response"
)

// Binder 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定
)

// EZ 路由分组 + 记录内部错误用的 logger
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// Action 一个接口：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string        // "GET" | "POST" | "PUT" | "DELETE"
	Path    string        // 例："/leads/:id"
	Binder  Binder        // 绑定方式
	Roles   []domain.Role // 限定角色（可选）
	Status  int           // 成功时的状态码，默认 200
	Message string        // 成功时附带的提示信息
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前分组下注册；错误在这里统一映射成响应，且只映射一次
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if len(a.Roles) > 0 && !hasRole(c, a.Roles) {
			mdw.CountAuthFailure("forbidden")
			c.JSON(http.StatusForbidden, resp.Error(http.StatusForbidden, "Access denied"))
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
				return
			}
			c.JSON(http.StatusBadRequest, resp.Error(http.StatusBadRequest, "Invalid request body"))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}

		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OKMsg(out, a.Message))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// fail 内部错误只写日志，对外统一文案
func (e EZ) fail(c *gin.Context, err error) {
	// 请求截止时间到了，DB 调用被取消：算超时，不算内部错误
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
		if e.log != nil {
			e.log.Warn("request deadline exceeded",
				zap.String("rid", mdw.RequestIDFrom(c)),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		c.JSON(http.StatusGatewayTimeout, resp.Error(http.StatusGatewayTimeout, ""))
		return
	}
	kind := errs.KindOf(err)
	status := kind.Status()
	if kind == errs.KindInternal {
		if e.log != nil {
			e.log.Error("request failed",
				zap.String("rid", mdw.RequestIDFrom(c)),
				zap.String("path", c.FullPath()),
				zap.Error(errors.Unwrap(err)),
				zap.String("msg", err.Error()),
			)
		}
		c.JSON(status, resp.Error(status, ""))
		return
	}
	c.JSON(status, resp.Error(status, err.Error()))
}

func hasRole(c *gin.Context, roles []domain.Role) bool {
	a, ok := mdw.ActorFrom(c)
	if !ok {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Actor 取当前调用者；只在 AuthJWT 分组下调用
func Actor(c *gin.Context) domain.Actor {
	a, _ := mdw.ActorFrom(c)
	return a
}

// ParamID 解析路径里的正整数 id
func ParamID(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errs.Validation("Invalid " + name)
	}
	return uint(n), nil
}
