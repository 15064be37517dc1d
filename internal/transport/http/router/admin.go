package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/domain"
	httpez "realestate-crm/internal/transport/http/ez"
	mdw "realestate-crm/internal/transport/http/middleware"
)

// mountAdmin /api/admin 分组统一要求 admin 角色
func mountAdmin(api *gin.RouterGroup, l *zap.Logger, jwter *auth.JWTer, reg *Registry) {
	admin := api.Group("/admin")
	admin.Use(mdw.AuthJWT(jwter), mdw.RequireRole(domain.RoleAdmin))
	reg.MountAdmin(httpez.New(admin, l))
}
