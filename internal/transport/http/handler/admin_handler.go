package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-crm/internal/domain"
	"realestate-crm/internal/service"
	httpez "realestate-crm/internal/transport/http/ez"
)

// AdminHandler 用户管理，挂在 /api/admin（分组已限定 admin）
type AdminHandler struct{ svc *service.UserService }

func NewAdminHandler(svc *service.UserService) *AdminHandler { return &AdminHandler{svc: svc} }

func (h *AdminHandler) MountAdmin(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[service.NewUser, *domain.User]{
		Method:  http.MethodPost,
		Path:    "/users",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "User created successfully",
		Handler: func(c *gin.Context, in *service.NewUser) (*domain.User, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(e, httpez.Action[domain.UserPatch, *domain.User]{
		Method:  http.MethodPut,
		Path:    "/users/:id",
		Binder:  httpez.BindJSON,
		Message: "User updated successfully",
		Handler: func(c *gin.Context, in *domain.UserPatch) (*domain.User, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, any]{
		Method:  http.MethodPut,
		Path:    "/users/deactive/:id",
		Binder:  httpez.BindNone,
		Message: "User deactivated successfully",
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return nil, h.svc.Deactivate(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, any]{
		Method:  http.MethodDelete,
		Path:    "/users/:id",
		Binder:  httpez.BindNone,
		Message: "User deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return nil, h.svc.Delete(c.Request.Context(), id)
		},
	})
}
