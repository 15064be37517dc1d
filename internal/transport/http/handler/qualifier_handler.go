package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-crm/internal/domain"
	"realestate-crm/internal/service"
	httpez "realestate-crm/internal/transport/http/ez"
)

type QualifierHandler struct{ svc *service.QualifierService }

func NewQualifierHandler(svc *service.QualifierService) *QualifierHandler {
	return &QualifierHandler{svc: svc}
}

// createIn name 可以是逗号分隔的多个值；names 给批量导入用
type createIn struct {
	Name  string               `json:"name"`
	Names []string             `json:"names"`
	Type  domain.QualifierType `json:"type"`
}

type listQ struct {
	Type domain.QualifierType `form:"type"`
}

// MountAPI 只读，录入线索时需要字典
func (h *QualifierHandler) MountAPI(e httpez.EZ) {
	h.mountRead(e, "/qualifiers")
}

func (h *QualifierHandler) MountAdmin(e httpez.EZ) {
	h.mountRead(e, "/qualifiers")

	httpez.RegisterAction(e, httpez.Action[createIn, []domain.Qualifier]{
		Method: http.MethodPost,
		Path:   "/qualifiers",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createIn) ([]domain.Qualifier, error) {
			if len(in.Names) > 0 {
				return h.svc.BulkCreate(c.Request.Context(), in.Names, in.Type)
			}
			return h.svc.Create(c.Request.Context(), in.Name, in.Type)
		},
	})

	httpez.RegisterAction(e, httpez.Action[domain.QualifierPatch, *domain.Qualifier]{
		Method: http.MethodPut,
		Path:   "/qualifiers/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.QualifierPatch) (*domain.Qualifier, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), id, *in)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, any]{
		Method:  http.MethodDelete,
		Path:    "/qualifiers/:id",
		Binder:  httpez.BindNone,
		Message: "Qualifier deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return nil, h.svc.Delete(c.Request.Context(), id)
		},
	})
}

func (h *QualifierHandler) mountRead(e httpez.EZ, base string) {
	httpez.RegisterAction(e, httpez.Action[listQ, []domain.Qualifier]{
		Method: http.MethodGet,
		Path:   base,
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) ([]domain.Qualifier, error) {
			return h.svc.List(c.Request.Context(), in.Type)
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Qualifier]{
		Method: http.MethodGet,
		Path:   base + "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Qualifier, error) {
			id, err := httpez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), id)
		},
	})
}
