package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/domain"
	"realestate-crm/internal/repo/memory"
	"realestate-crm/internal/service"
	"realestate-crm/internal/transport/http/handler"
	"realestate-crm/internal/transport/http/router"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type apiEnv struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	jwter := &auth.JWTer{Secret: []byte("test"), Issuer: "crm-test", TTL: 24 * time.Hour}
	access := service.NewAccess(st.Lists(), st.Leads())

	r := router.NewAPIEngine(router.Options{
		Log:          zap.NewNop(),
		JWT:          jwter,
		AllowOrigins: []string{"http://localhost:5173"},
		Modules: []any{
			handler.NewAuthHandler(service.NewAuthService(st.Users(), jwter, domain.RoleAdmin, bcrypt.MinCost)),
			handler.NewAdminHandler(service.NewUserService(st.Users(), bcrypt.MinCost)),
			handler.NewListHandler(service.NewListService(st.Lists(), st.Users(), access)),
			handler.NewLeadHandler(service.NewLeadService(st.Leads(), access)),
			handler.NewQualifierHandler(service.NewQualifierService(st.Qualifiers(), nil, time.Minute)),
		},
	})
	return &apiEnv{t: t, r: r}
}

func (e *apiEnv) do(method, path, token string, body any) (int, envelope) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (e *apiEnv) login(email, password string) string {
	e.t.Helper()
	code, env := e.do(http.MethodPost, "/api/auth/log", "", gin.H{"email": email, "password": password})
	require.Equal(e.t, http.StatusOK, code, env.Message)
	out := decode[struct {
		Token string `json:"token"`
	}](e.t, env.Data)
	return out.Token
}

// bootstrap 注册第一个 admin 并登录
func (e *apiEnv) bootstrap() string {
	e.t.Helper()
	code, _ := e.do(http.MethodPost, "/api/auth/reg", "", gin.H{"username": "root", "email": "root@x.com", "password": "secret1"})
	require.Equal(e.t, http.StatusCreated, code)
	return e.login("root@x.com", "secret1")
}

func (e *apiEnv) createUser(adminTok, name string, role domain.Role) string {
	e.t.Helper()
	code, env := e.do(http.MethodPost, "/api/admin/users", adminTok, gin.H{
		"username": name, "email": name + "@x.com", "password": "secret1", "role": role,
	})
	require.Equal(e.t, http.StatusCreated, code, env.Message)
	return e.login(name+"@x.com", "secret1")
}

func TestHealthAndNoRoute(t *testing.T) {
	api := newAPI(t)
	code, env := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = api.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestRegisterLoginMe(t *testing.T) {
	api := newAPI(t)
	body := gin.H{"username": "root", "email": "root@x.com", "password": "secret1"}

	code, env := api.do(http.MethodPost, "/api/auth/reg", "", body)
	require.Equal(t, http.StatusCreated, code)
	u := decode[map[string]any](t, env.Data)
	assert.Equal(t, "root", u["username"])
	assert.NotContains(t, u, "password_hash")

	code, env = api.do(http.MethodPost, "/api/auth/reg", "", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Username or email already exists", env.Message)

	code, env = api.do(http.MethodPost, "/api/auth/reg", "", gin.H{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = api.do(http.MethodPost, "/api/auth/log", "", gin.H{"email": "root@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)

	code, env2 := api.do(http.MethodPost, "/api/auth/log", "", gin.H{"email": "bob@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, env.Message, env2.Message)

	code, _ = api.do(http.MethodPost, "/api/auth/log", "", gin.H{"email": "root@x.com"})
	assert.Equal(t, http.StatusBadRequest, code)

	tok := api.login("root@x.com", "secret1")
	for _, p := range []string{"/api/auth/me", "/api/users/me"} {
		code, env = api.do(http.MethodGet, p, tok, nil)
		require.Equal(t, http.StatusOK, code)
		me := decode[domain.User](t, env.Data)
		assert.Equal(t, "root@x.com", me.Email)
		assert.Equal(t, domain.RoleAdmin, me.Role)
	}
}

func TestAuthGate(t *testing.T) {
	api := newAPI(t)

	code, env := api.do(http.MethodGet, "/api/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication required", env.Message)

	code, env = api.do(http.MethodGet, "/api/leads", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid or expired token", env.Message)

	admin := api.bootstrap()
	sales := api.createUser(admin, "u1", domain.RoleSales)

	code, env = api.do(http.MethodGet, "/api/admin/users", sales, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied", env.Message)

	code, _ = api.do(http.MethodGet, "/api/lists/with-counts", sales, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodGet, "/api/lists/with-counts", admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestOwnershipScenario(t *testing.T) {
	api := newAPI(t)
	admin := api.bootstrap()
	u1 := api.createUser(admin, "u1", domain.RoleSales)
	u2 := api.createUser(admin, "u2", domain.RoleSales)

	code, env := api.do(http.MethodPost, "/api/lists", u1, gin.H{"name": "L1", "list_owner": "u1"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	list := decode[domain.List](t, env.Data)
	assert.Equal(t, "u1", list.OwnerUsername)

	code, env = api.do(http.MethodPost, "/api/leads", u1, gin.H{"fname": "A", "mobile": "1", "list_id": list.ID, "dealSize": "2Cr"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	lead := decode[domain.Lead](t, env.Data)
	assert.Equal(t, "L1", lead.ListName)
	require.NotNil(t, lead.DealSize)
	assert.Equal(t, "2Cr", *lead.DealSize)

	leadPath := fmt.Sprintf("/api/leads/%d", lead.ID)
	listPath := fmt.Sprintf("/api/lists/%d", list.ID)

	code, _ = api.do(http.MethodGet, leadPath, u2, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodPut, leadPath, u2, gin.H{"fname": "B"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodDelete, leadPath, u2, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodGet, listPath, u2, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodGet, fmt.Sprintf("/api/leads/list/%d", list.ID), u2, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = api.do(http.MethodPost, "/api/leads", u2, gin.H{"fname": "X", "mobile": "9", "list_id": list.ID})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodGet, "/api/leads", u2, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	// owner 和 admin 都能读
	for _, tok := range []string{u1, admin} {
		code, env = api.do(http.MethodGet, leadPath, tok, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "A", decode[domain.Lead](t, env.Data).Fname)
	}

	code, env = api.do(http.MethodGet, fmt.Sprintf("/api/leads/list/%d", list.ID), u1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]domain.Lead](t, env.Data), 1)

	code, _ = api.do(http.MethodGet, "/api/leads/999", u1, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = api.do(http.MethodGet, "/api/lists/with-counts", admin, nil)
	require.Equal(t, http.StatusOK, code)
	sums := decode[[]domain.ListSummary](t, env.Data)
	require.Len(t, sums, 1)
	assert.EqualValues(t, 1, sums[0].TotalLeads)

	code, env = api.do(http.MethodDelete, leadPath, u1, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Lead deleted successfully", env.Message)
	code, _ = api.do(http.MethodGet, leadPath, u1, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLeadPatchOverHTTP(t *testing.T) {
	api := newAPI(t)
	admin := api.bootstrap()
	u1 := api.createUser(admin, "u1", domain.RoleSales)

	_, env := api.do(http.MethodPost, "/api/lists", u1, gin.H{"name": "L1", "list_owner": "u1"})
	list := decode[domain.List](t, env.Data)
	_, env = api.do(http.MethodPost, "/api/leads", u1, gin.H{"fname": "A", "mobile": "1", "list_id": list.ID, "notes": "n1"})
	lead := decode[domain.Lead](t, env.Data)
	path := fmt.Sprintf("/api/leads/%d", lead.ID)

	// null 和缺省都不改；空串会写入
	code, env := api.do(http.MethodPut, path, u1, `{"notes": null, "email": "", "leadStage": "won"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	got := decode[domain.Lead](t, env.Data)
	assert.Equal(t, "n1", *got.Notes)
	assert.Equal(t, "", *got.Email)
	assert.Equal(t, "won", *got.LeadStage)

	code, _ = api.do(http.MethodPut, path, u1, gin.H{"fname": ""})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = api.do(http.MethodPut, path, u1, `{"fname":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", env.Message)

	code, _ = api.do(http.MethodGet, "/api/leads/abc", u1, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSearchOverHTTP(t *testing.T) {
	api := newAPI(t)
	admin := api.bootstrap()
	u1 := api.createUser(admin, "u1", domain.RoleSales)
	_, env := api.do(http.MethodPost, "/api/lists", u1, gin.H{"name": "L1", "list_owner": "u1"})
	list := decode[domain.List](t, env.Data)
	api.do(http.MethodPost, "/api/leads", u1, gin.H{"fname": "Meera", "mobile": "98", "list_id": list.ID})

	code, env := api.do(http.MethodPost, "/api/leads/search", u1, gin.H{"query": "m"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Query must be at least 2 characters", env.Message)

	code, env = api.do(http.MethodPost, "/api/leads/search", u1, gin.H{"query": "MEE"})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]domain.Lead](t, env.Data), 1)
}

func TestQualifiersOverHTTP(t *testing.T) {
	api := newAPI(t)
	admin := api.bootstrap()
	sales := api.createUser(admin, "u1", domain.RoleSales)

	code, env := api.do(http.MethodPost, "/api/admin/qualifiers", admin, gin.H{"name": "Hot, Cold", "type": "tag"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Len(t, decode[[]domain.Qualifier](t, env.Data), 2)

	code, env = api.do(http.MethodPost, "/api/admin/qualifiers", admin, gin.H{"names": []string{"Hot", "Warm"}, "type": "tag"})
	require.Equal(t, http.StatusCreated, code)
	created := decode[[]domain.Qualifier](t, env.Data)
	require.Len(t, created, 1)
	assert.Equal(t, "Warm", created[0].Name)

	code, _ = api.do(http.MethodPost, "/api/admin/qualifiers", sales, gin.H{"name": "x", "type": "tag"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodGet, "/api/qualifiers?type=tag", sales, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]domain.Qualifier](t, env.Data), 3)

	code, env = api.do(http.MethodGet, "/api/admin/qualifiers?type=color", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid type filter", env.Message)

	path := fmt.Sprintf("/api/admin/qualifiers/%d", created[0].ID)
	code, env = api.do(http.MethodPut, path, admin, gin.H{"name": "Hot"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = api.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Qualifier deleted successfully", env.Message)

	code, _ = api.do(http.MethodGet, fmt.Sprintf("/api/qualifiers/%d", created[0].ID), sales, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAdminUserManagement(t *testing.T) {
	api := newAPI(t)
	admin := api.bootstrap()
	api.createUser(admin, "u1", domain.RoleSales)

	code, env := api.do(http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, code)
	users := decode[[]domain.User](t, env.Data)
	require.Len(t, users, 2)
	u1 := users[0]
	assert.Equal(t, "u1", u1.Username)

	code, _ = api.do(http.MethodPost, "/api/admin/users", admin, gin.H{"username": "z", "email": "z@x.com", "password": "secret1", "role": "boss"})
	assert.Equal(t, http.StatusBadRequest, code)

	path := fmt.Sprintf("/api/admin/users/%d", u1.ID)
	code, env = api.do(http.MethodPut, path, admin, gin.H{"role": "manager"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.RoleManager, decode[domain.User](t, env.Data).Role)

	_, env = api.do(http.MethodPost, "/api/lists", admin, gin.H{"name": "L", "list_owner": "u1"})
	list := decode[domain.List](t, env.Data)

	code, env = api.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User still owns lists", env.Message)

	code, _ = api.do(http.MethodPut, fmt.Sprintf("/api/admin/users/deactive/%d", u1.ID), admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPost, "/api/auth/log", "", gin.H{"email": "u1@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/lists/%d", list.ID), admin, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsExposeRouteTemplates(t *testing.T) {
	api := newAPI(t)
	tok := api.bootstrap()
	api.do(http.MethodGet, "/api/leads/999", tok, nil)
	api.do(http.MethodGet, "/api/leads", "", nil)

	w := httptest.NewRecorder()
	api.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `crm_http_requests_total{method="GET",route="/api/leads/:id",status="404"}`)
	assert.Contains(t, body, `crm_auth_failures_total{reason="missing_token"}`)
}
