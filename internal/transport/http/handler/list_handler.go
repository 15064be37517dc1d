package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-crm/internal/domain"
	"realestate-crm/internal/service"
	httpez "realestate-crm/internal/transport/http/ez"
)

type ListHandler struct{ svc *service.ListService }

func NewListHandler(svc *service.ListService) *ListHandler { return &ListHandler{svc: svc} }

func (h *ListHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[domain.NewList, *domain.List]{
		Method:  http.MethodPost,
		Path:    "/lists",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "List created successfully",
		Handler: func(c *gin.Context, in *domain.NewList) (*domain.List, error) {
			return h.svc.Create(c.Request.Context(), httpez.Actor(c), *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.List]{
		Method: http.MethodGet,
		Path:   "/lists",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.List, error) {
			return h.svc.List(c.Request.Context(), httpez.Actor(c))
		},
	})

	// 静态路径优先于 /lists/:id
	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.ListSummary]{
		Method: http.MethodGet,
		Path:   "/lists/with-counts",
		Binder: httpez.BindNone,
		Roles:  []domain.Role{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ListSummary, error) {
			return h.svc.Summaries(c.Request.Context())
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.List]{
		Method: http.MethodGet,
		Path:   "/lists/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.List, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), httpez.Actor(c), id)
		},
	})

	httpez.RegisterAction(e, httpez.Action[domain.ListPatch, *domain.List]{
		Method:  http.MethodPut,
		Path:    "/lists/:id",
		Binder:  httpez.BindJSON,
		Message: "List updated successfully",
		Handler: func(c *gin.Context, in *domain.ListPatch) (*domain.List, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), httpez.Actor(c), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, any]{
		Method:  http.MethodDelete,
		Path:    "/lists/:id",
		Binder:  httpez.BindNone,
		Message: "List deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return nil, h.svc.Delete(c.Request.Context(), httpez.Actor(c), id)
		},
	})
}
