package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"realestate-crm/internal/core/auth"
	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
	"realestate-crm/internal/repo/memory"
)

var ctx = context.Background()

type fixture struct {
	store *memory.Store
	jwt   *auth.JWTer
	auth  *AuthService
	users *UserService
	lists *ListService
	leads *LeadService
	quals *QualifierService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	j := &auth.JWTer{Secret: []byte("test"), Issuer: "crm-test", TTL: 24 * time.Hour}
	access := NewAccess(st.Lists(), st.Leads())
	return &fixture{
		store: st,
		jwt:   j,
		auth:  NewAuthService(st.Users(), j, domain.RoleAdmin, bcrypt.MinCost),
		users: NewUserService(st.Users(), bcrypt.MinCost),
		lists: NewListService(st.Lists(), st.Users(), access),
		leads: NewLeadService(st.Leads(), access),
		quals: NewQualifierService(st.Qualifiers(), nil, time.Minute),
	}
}

// user 建一个用户并返回对应的调用者身份
func (f *fixture) user(t *testing.T, name string, role domain.Role) domain.Actor {
	t.Helper()
	u, err := f.users.Create(ctx, NewUser{
		Username: name,
		Email:    name + "@x.com",
		Password: "secret1",
		Role:     role,
	})
	require.NoError(t, err)
	return domain.Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) list(t *testing.T, owner string, name string) *domain.List {
	t.Helper()
	l, err := f.lists.Create(ctx, domain.Actor{}, domain.NewList{Name: name, ListOwner: owner})
	require.NoError(t, err)
	return l
}

func (f *fixture) lead(t *testing.T, a domain.Actor, listID uint, fname, mobile string) *domain.Lead {
	t.Helper()
	l, err := f.leads.Create(ctx, a, domain.NewLead{ListID: listID, Fname: fname, Mobile: mobile})
	require.NoError(t, err)
	return l
}

func requireKind(t *testing.T, err error, k errs.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, k, errs.KindOf(err), "got %v", err)
}

func ptr[T any](v T) *T { return &v }
