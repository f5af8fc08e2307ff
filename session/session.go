// Package session owns the process-wide authentication state: who is logged
// in, which bearer token is active, and how the token is persisted,
// refreshed and torn down. The controller is an explicitly constructed,
// injectable object rather than ambient global state.
package session

import (
	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/pkg/errors"
)

// State is the controller's position in the auth lifecycle.
type State int

const (
	// Anonymous: no token, no user.
	Anonymous State = iota
	// Authenticating: login or register in flight.
	Authenticating
	// Authenticated: token and (eventually) user present.
	Authenticated
	// Refreshing: token present, user fetch or token refresh in flight.
	Refreshing
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Session is a read-only snapshot of the controller's state, consumed by the
// route guard and the view layer.
type Session struct {
	CurrentUser   *eventpass.UserProfile
	Token         string
	IsLoadingUser bool
	LastError     string
}

// Route is a navigation target the controller signals to the view layer.
type Route string

const (
	RouteLogin        Route = "/login"
	RouteAdminHome    Route = "/admin"
	RouteCustomerHome Route = "/home"
)

// Navigator receives navigation signals on login, logout and role routing.
// Implementations belong to the view layer; a nil navigator is a no-op.
type Navigator interface {
	NavigateTo(route Route)
}

// HomeRoute is the landing page for a role.
func HomeRoute(role eventpass.Role) Route {
	if role == eventpass.RoleAdmin {
		return RouteAdminHome
	}
	return RouteCustomerHome
}

// Sentinel errors.
var (
	// ErrNoSession: an operation that needs a token ran while anonymous.
	ErrNoSession = errors.New("no active session")
	// ErrSuperseded: a response arrived for a session that a newer login
	// or logout has since replaced; the result was discarded.
	ErrSuperseded = errors.New("session superseded")
)
