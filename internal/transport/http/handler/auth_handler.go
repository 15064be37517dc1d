package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
	"realestate-crm/internal/service"
	httpez "realestate-crm/internal/transport/http/ez"
	mdw "realestate-crm/internal/transport/http/middleware"
)

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

type registerIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MountPublic /api/auth/reg、/api/auth/log 不需要登录
func (h *AuthHandler) MountPublic(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[registerIn, *domain.User]{
		Method:  http.MethodPost,
		Path:    "/auth/reg",
		Binder:  httpez.BindJSON,
		Status:  http.StatusCreated,
		Message: "Admin registered successfully",
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return h.svc.Register(c.Request.Context(), in.Username, in.Email, in.Password)
		},
	})

	httpez.RegisterAction(e, httpez.Action[loginIn, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/log",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.LoginResult, error) {
			out, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if errs.Is(err, errs.KindUnauthorized) {
				mdw.CountAuthFailure("bad_credentials")
			}
			return out, err
		},
	})
}

func (h *AuthHandler) MountAPI(e httpez.EZ) {
	me := func(c *gin.Context, _ *struct{}) (*domain.User, error) {
		return h.svc.Me(c.Request.Context(), httpez.Actor(c))
	}
	for _, p := range []string{"/auth/me", "/users/me"} {
		httpez.RegisterAction(e, httpez.Action[struct{}, *domain.User]{
			Method:  http.MethodGet,
			Path:    p,
			Binder:  httpez.BindNone,
			Handler: me,
		})
	}
}
