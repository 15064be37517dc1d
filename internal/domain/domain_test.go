package domain

import (
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleOwner, RoleManager, RoleL1, RoleL2, RoleSales} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Admin").Valid())
}

func TestQualifierTypeValid(t *testing.T) {
	for _, q := range QualifierTypes {
		assert.True(t, q.Valid())
	}
	assert.False(t, QualifierType("color").Valid())
}

func TestLeadPatchColumnsOnlyPresentFields(t *testing.T) {
	var p LeadPatch
	require.NoError(t, json.Unmarshal([]byte(`{"lname":"","notes":null,"dealSize":"1Cr","tags":["a"],"list_id":3}`), &p))

	cols := p.Columns()
	assert.Equal(t, map[string]any{
		"lname":     "",
		"deal_size": "1Cr",
		"tags":      pq.StringArray{"a"},
		"list_id":   uint(3),
	}, cols)
	assert.Empty(t, LeadPatch{}.Columns())
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, ListPatch{}.Empty())
	name := "x"
	assert.False(t, ListPatch{Name: &name}.Empty())

	// 明文密码不算，哈希后才写库
	assert.True(t, UserPatch{Password: &name}.Empty())
	assert.False(t, UserPatch{PasswordHash: &name}.Empty())
}

func TestActorIsAdmin(t *testing.T) {
	assert.True(t, Actor{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Actor{Role: RoleOwner}.IsAdmin())
}
