// Package guard decides, per navigation, whether a role-restricted view may
// render for the current session.
package guard

import "github.com/icisct/conference-system/pkg/session"

// State is the guard's verdict for one evaluation.
type State int

const (
	// StateUnknown means the session bootstrap has not resolved yet. The
	// caller renders a neutral placeholder and must not redirect.
	StateUnknown State = iota
	// StateUnauthorized means no user is logged in. Redirect to login.
	StateUnauthorized
	// StateForbidden means a user is logged in but lacks a required role.
	// Redirects to login as well; there is no dedicated 403 view.
	StateForbidden
	// StateAuthorized means the view may render.
	StateAuthorized
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateUnauthorized:
		return "unauthorized"
	case StateForbidden:
		return "forbidden"
	case StateAuthorized:
		return "authorized"
	default:
		return "invalid"
	}
}

// LoginPath is where unauthenticated and role-mismatched navigations land.
const LoginPath = "/login"

// Decision is the outcome of one guard evaluation. RedirectTo is empty
// unless the state calls for a redirect.
type Decision struct {
	State      State
	RedirectTo string
}

// Evaluate applies the guard's checks in fixed order: unknown, then
// unauthorized, then forbidden, then authorized. An empty allowedRoles set
// admits any authenticated user. A view is never authorized while the
// session is still bootstrapping, because the absence of a user is not yet
// meaningful.
func Evaluate(snap session.Snapshot, allowedRoles ...string) Decision {
	if snap.Bootstrapping {
		return Decision{State: StateUnknown}
	}
	if snap.User == nil {
		return Decision{State: StateUnauthorized, RedirectTo: LoginPath}
	}
	if len(allowedRoles) > 0 && !contains(allowedRoles, snap.User.Role) {
		return Decision{State: StateForbidden, RedirectTo: LoginPath}
	}
	return Decision{State: StateAuthorized}
}

// LandingPath maps a role to the view shown right after login. The mapping
// is total: any unrecognised role lands on the public home view, so
// navigation never dead-ends.
func LandingPath(role string) string {
	switch role {
	case "ADMIN":
		return "/admin/dashboard/papers"
	case "AUTHOR":
		return "/author/dashboard/submit"
	case "REVIEWER":
		return "/reviewer/dashboard/papers"
	default:
		return "/"
	}
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
