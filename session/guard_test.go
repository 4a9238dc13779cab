package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gabyel-dev/CafeRealitea/api"
)

type stubSessionAPI struct {
	session *api.Session
	err     error
}

func (s *stubSessionAPI) CurrentSession(context.Context) (*api.Session, error) {
	return s.session, s.err
}

func TestGuardRedirectsLoggedOutToLogin(t *testing.T) {
	g := NewGuard(&stubSessionAPI{session: &api.Session{LoggedIn: false}})

	d := g.Check(context.Background(), RoleStaff)
	assert.False(t, d.Allowed)
	assert.Equal(t, LoginRoute, d.Redirect)
}

func TestGuardRedirectsEmptyRoleToLogin(t *testing.T) {
	g := NewGuard(&stubSessionAPI{session: &api.Session{LoggedIn: true, Role: ""}})

	d := g.Check(context.Background(), RoleStaff)
	assert.False(t, d.Allowed)
	assert.Equal(t, LoginRoute, d.Redirect)
}

func TestGuardTreatsNetworkFailureAsLoggedOut(t *testing.T) {
	g := NewGuard(&stubSessionAPI{err: errors.New("connection refused")})

	d := g.Check(context.Background(), RoleStaff)
	assert.False(t, d.Allowed)
	assert.Equal(t, LoginRoute, d.Redirect)
}

func TestGuardRedirectsWrongRoleToOwnDashboard(t *testing.T) {
	staff := &api.Session{LoggedIn: true, Role: "Staff", User: &api.User{ID: 7}}
	g := NewGuard(&stubSessionAPI{session: staff})

	// Staff lands on an Admin-only view: sent to the Staff dashboard,
	// never an error page.
	d := g.Check(context.Background(), RoleAdmin)
	assert.False(t, d.Allowed)
	assert.Equal(t, "/Staff/dashboard", d.Redirect)
}

func TestGuardAllowsMatchingRole(t *testing.T) {
	admin := &api.Session{LoggedIn: true, Role: "Admin", User: &api.User{ID: 3}}
	g := NewGuard(&stubSessionAPI{session: admin})

	d := g.Check(context.Background(), RoleAdmin)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Redirect)
	assert.Equal(t, 3, d.Session.User.ID)
}

func TestGuardAllowsHigherRole(t *testing.T) {
	sysadmin := &api.Session{LoggedIn: true, Role: "System Administrator"}
	g := NewGuard(&stubSessionAPI{session: sysadmin})

	d := g.Check(context.Background(), RoleAdmin)
	assert.True(t, d.Allowed)
}

func TestGuardLoginOnlyViews(t *testing.T) {
	staff := &api.Session{LoggedIn: true, Role: "Staff"}
	g := NewGuard(&stubSessionAPI{session: staff})

	d := g.Check(context.Background(), RoleUnknown)
	assert.True(t, d.Allowed)
}
