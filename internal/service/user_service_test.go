package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-crm/internal/core/errs"
	"realestate-crm/internal/domain"
)

func TestUserCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Create(ctx, NewUser{Username: "a", Email: "a@x.com", Password: "secret1", Role: "root"})
	requireKind(t, err, errs.KindValidation)

	_, err = f.users.Create(ctx, NewUser{Username: "a", Email: "a@x.com", Password: "secret1"})
	requireKind(t, err, errs.KindValidation)

	f.user(t, "a", domain.RoleL1)
	_, err = f.users.Create(ctx, NewUser{Username: "a", Email: "other@x.com", Password: "secret1", Role: domain.RoleL2})
	requireKind(t, err, errs.KindConflict)
}

func TestUserUpdatePatch(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a", domain.RoleSales)
	f.user(t, "b", domain.RoleSales)

	u, err := f.users.Update(ctx, a.ID, domain.UserPatch{Role: ptr(domain.RoleManager)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, u.Role)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = f.users.Update(ctx, a.ID, domain.UserPatch{Username: ptr("b")})
	requireKind(t, err, errs.KindConflict)

	_, err = f.users.Update(ctx, a.ID, domain.UserPatch{Role: ptr(domain.Role("root"))})
	requireKind(t, err, errs.KindValidation)

	_, err = f.users.Update(ctx, a.ID, domain.UserPatch{Email: ptr("  ")})
	requireKind(t, err, errs.KindValidation)

	_, err = f.users.Update(ctx, 999, domain.UserPatch{Role: ptr(domain.RoleL1)})
	requireKind(t, err, errs.KindNotFound)

	// 改密码后新密码可登录
	_, err = f.users.Update(ctx, a.ID, domain.UserPatch{Password: ptr("newpass1")})
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "a@x.com", "newpass1")
	require.NoError(t, err)
}

func TestUserDeleteRestrictedByOwnedLists(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a", domain.RoleSales)
	l := f.list(t, "a", "Villas")

	requireKind(t, f.users.Delete(ctx, a.ID), errs.KindConflict)

	require.NoError(t, f.lists.Delete(ctx, a, l.ID))
	require.NoError(t, f.users.Delete(ctx, a.ID))
	requireKind(t, f.users.Delete(ctx, a.ID), errs.KindNotFound)
	requireKind(t, f.users.Deactivate(ctx, a.ID), errs.KindNotFound)
}

func TestUserListNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.user(t, "first", domain.RoleSales)
	f.user(t, "second", domain.RoleSales)

	us, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, us, 2)
	assert.Equal(t, "second", us[0].Username)
}
