package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleMaster, RoleAdmin, RoleGestao, RoleUsuario} {
		assert.True(t, role.Valid(), "role %s", role)
	}
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestStrongest(t *testing.T) {
	testCases := []struct {
		name  string
		roles []Role
		want  Role
	}{
		{
			name:  "master beats everything",
			roles: []Role{RoleUsuario, RoleMaster, RoleGestao},
			want:  RoleMaster,
		},
		{
			name:  "admin beats gestao",
			roles: []Role{RoleGestao, RoleAdmin},
			want:  RoleAdmin,
		},
		{
			name:  "single role",
			roles: []Role{RoleGestao},
			want:  RoleGestao,
		},
		{
			name:  "empty defaults to usuario",
			roles: nil,
			want:  RoleUsuario,
		},
		{
			name:  "unknown roles are ignored",
			roles: []Role{Role("superuser"), RoleGestao},
			want:  RoleGestao,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Strongest(tc.roles))
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleMaster.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleGestao.IsAdmin())
	assert.False(t, RoleUsuario.IsAdmin())

	assert.True(t, RoleMaster.CanManage())
	assert.True(t, RoleAdmin.CanManage())
	assert.True(t, RoleGestao.CanManage())
	assert.False(t, RoleUsuario.CanManage())
}
