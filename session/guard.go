package session

import (
	"context"

	"github.com/op/go-logging"

	"github.com/gabyel-dev/CafeRealitea/api"
)

var log = logging.MustGetLogger("log")

// LoginRoute is where every authentication failure resolves to.
const LoginRoute = "/login"

// API is the slice of the backend client the guard needs.
type API interface {
	CurrentSession(ctx context.Context) (*api.Session, error)
}

// Decision is the outcome of a guard check. When Allowed is false the view
// must not render; Redirect says where to send the user instead. Failures
// are never surfaced as errors, only as redirects (the front-end treated
// any session trouble as "go to login").
type Decision struct {
	Allowed  bool
	Redirect string
	Session  *api.Session
}

// Guard gates views on the server session. Every protected view runs Check
// before rendering anything.
type Guard struct {
	api API
}

func NewGuard(a API) *Guard {
	return &Guard{api: a}
}

// Check fetches the session and decides whether a view requiring the given
// role may render. Pass RoleUnknown for views that only require a login.
//
// Rules, in order:
//   - fetch failure, logged_in=false or empty role: redirect to login;
//   - role below the required one: redirect to that role's own dashboard
//     (authorization here redirects, it does not show an error page);
//   - otherwise allow and hand the session to the view for display.
func (g *Guard) Check(ctx context.Context, required Role) Decision {
	s, err := g.api.CurrentSession(ctx)
	if err != nil {
		log.Errorf("Authentication check failed: %v", err)
		return Decision{Redirect: LoginRoute}
	}
	if !s.LoggedIn || s.Role == "" {
		return Decision{Redirect: LoginRoute}
	}

	role := ParseRole(s.Role)
	if role == RoleUnknown {
		log.Warningf("Session carries unknown role %q, treating as not authenticated", s.Role)
		return Decision{Redirect: LoginRoute}
	}
	if required != RoleUnknown && !role.AtLeast(required) {
		return Decision{Redirect: role.DashboardRoute(), Session: s}
	}
	return Decision{Allowed: true, Session: s}
}
