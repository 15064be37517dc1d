package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/core/config"
	"realestate-crm/internal/core/server"
	httpez "realestate-crm/internal/transport/http/ez"
	mdw "realestate-crm/internal/transport/http/middleware"
	resp "realestate-crm/internal/transport/http/response"
)

type Options struct {
	Log          *zap.Logger
	JWT          *auth.JWTer
	Limits       config.Limits
	AllowOrigins []string
	// Modules handler 模块，见 PublicModule / APIModule / AdminModule
	Modules []any
}

func NewAPIEngine(o Options) *gin.Engine {
	r := server.NewEngine(o.Log, o.AllowOrigins)

	// 中间件；限流类参数 <= 0 表示不启用
	r.Use(mdw.RequestID(), mdw.AccessLog(o.Log), mdw.Metrics())
	lim := o.Limits
	reqTimeout := time.Duration(lim.RequestTimeout) * time.Second
	if lim.RPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	if lim.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.MaxConcurrent, reqTimeout))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if reqTimeout > 0 {
		r.Use(mdw.Timeout(reqTimeout, "/metrics"))
	}

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) })
	r.GET("/metrics", mdw.MetricsHandler())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, "Route not found"))
	})

	reg := &Registry{}
	reg.Register(o.Modules...)

	api := r.Group("/api")

	// 公共（注册/登录）
	reg.MountPublic(httpez.New(api, o.Log))

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(o.JWT))
	reg.MountAPI(httpez.New(authed, o.Log))

	mountAdmin(api, o.Log, o.JWT, reg)

	return r
}
