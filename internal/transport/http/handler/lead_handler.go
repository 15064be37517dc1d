package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-crm/internal/domain"
	"realestate-crm/internal/service"
	httpez "realestate-crm/internal/transport/http/ez"
)

type LeadHandler struct{ svc *service.LeadService }

func NewLeadHandler(svc *service.LeadService) *LeadHandler { return &LeadHandler{svc: svc} }

type searchIn struct {
	Query string `json:"query"`
}

func (h *LeadHandler) MountAPI(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[domain.NewLead, *domain.Lead]{
		Method: http.MethodPost,
		Path:   "/leads",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.NewLead) (*domain.Lead, error) {
			return h.svc.Create(c.Request.Context(), httpez.Actor(c), *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[searchIn, []domain.Lead]{
		Method: http.MethodPost,
		Path:   "/leads/search",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *searchIn) ([]domain.Lead, error) {
			return h.svc.Search(c.Request.Context(), httpez.Actor(c), in.Query)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.Lead]{
		Method: http.MethodGet,
		Path:   "/leads",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Lead, error) {
			return h.svc.GetAll(c.Request.Context(), httpez.Actor(c))
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.Lead]{
		Method: http.MethodGet,
		Path:   "/leads/list/:list_id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Lead, error) {
			listID, err := httpez.ParamID(c, "list_id")
			if err != nil {
				return nil, err
			}
			return h.svc.ListByList(c.Request.Context(), httpez.Actor(c), listID)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Lead]{
		Method: http.MethodGet,
		Path:   "/leads/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Lead, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.GetByID(c.Request.Context(), httpez.Actor(c), id)
		},
	})

	httpez.RegisterAction(e, httpez.Action[domain.LeadPatch, *domain.Lead]{
		Method: http.MethodPut,
		Path:   "/leads/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.LeadPatch) (*domain.Lead, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), httpez.Actor(c), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, any]{
		Method:  http.MethodDelete,
		Path:    "/leads/:id",
		Binder:  httpez.BindNone,
		Message: "Lead deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return nil, h.svc.Delete(c.Request.Context(), httpez.Actor(c), id)
		},
	})
}
