package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"Staff", RoleStaff},
		{"Admin", RoleAdmin},
		{"System Administrator", RoleSystemAdministrator},
		{"Super Admin", RoleSystemAdministrator}, // legacy spelling
		{"", RoleUnknown},
		{"admin", RoleUnknown}, // wire format is case-sensitive
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.in), "ParseRole(%q)", tt.in)
	}
}

func TestRoleCanonicalString(t *testing.T) {
	// The legacy spelling never round-trips back out.
	assert.Equal(t, "System Administrator", ParseRole("Super Admin").String())
}

func TestDashboardRoute(t *testing.T) {
	assert.Equal(t, "/Staff/dashboard", RoleStaff.DashboardRoute())
	assert.Equal(t, "/Admin/dashboard", RoleAdmin.DashboardRoute())
	assert.Equal(t, LoginRoute, RoleUnknown.DashboardRoute())
}

func TestAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleStaff))
	assert.True(t, RoleSystemAdministrator.AtLeast(RoleAdmin))
	assert.True(t, RoleStaff.AtLeast(RoleStaff))
	assert.False(t, RoleStaff.AtLeast(RoleAdmin))
	assert.False(t, RoleUnknown.AtLeast(RoleStaff))
}
