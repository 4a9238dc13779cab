package session

// Role is the closed set of account roles the backend can report. The wire
// format is the display string ("Admin", "Staff", "System Administrator");
// the retired "Super Admin" spelling still appears on old accounts and is
// normalized on parse.
type Role int

const (
	RoleUnknown Role = iota
	RoleStaff
	RoleAdmin
	RoleSystemAdministrator
)

func ParseRole(s string) Role {
	switch s {
	case "Staff":
		return RoleStaff
	case "Admin":
		return RoleAdmin
	case "System Administrator", "Super Admin":
		return RoleSystemAdministrator
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleStaff:
		return "Staff"
	case RoleAdmin:
		return "Admin"
	case RoleSystemAdministrator:
		return "System Administrator"
	default:
		return ""
	}
}

// DashboardRoute is where a user of this role lands after a redirect, same
// scheme the front-end used: /<role>/dashboard.
func (r Role) DashboardRoute() string {
	if r == RoleUnknown {
		return LoginRoute
	}
	return "/" + r.String() + "/dashboard"
}

// AtLeast reports whether r grants everything that required grants.
// System Administrator outranks Admin outranks Staff.
func (r Role) AtLeast(required Role) bool {
	return r >= required && r != RoleUnknown
}
