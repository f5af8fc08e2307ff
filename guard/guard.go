// Package guard decides whether a protected view may render for the current
// session. The decision core is pure; an http middleware adapter is provided
// for server-rendered frontends.
package guard

import (
	"slices"

	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/session"
)

// Action is what the view layer should do with a navigation attempt.
type Action int

const (
	// Render the requested view.
	Render Action = iota
	// ShowLoading: the session is still resolving the user; render a
	// neutral placeholder, never redirect prematurely.
	ShowLoading
	// Redirect to Decision.Target.
	Redirect
)

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Action Action
	Target session.Route
}

// Evaluate gates a view behind the session state and an optional role
// allowlist. An authenticated user whose role is not allowed is sent to
// their own landing page, not to login and not to an error page.
func Evaluate(snap session.Session, allowedRoles []eventpass.Role) Decision {
	if snap.IsLoadingUser {
		return Decision{Action: ShowLoading}
	}
	if snap.CurrentUser == nil {
		return Decision{Action: Redirect, Target: session.RouteLogin}
	}
	if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, snap.CurrentUser.Role) {
		return Decision{Action: Redirect, Target: session.HomeRoute(snap.CurrentUser.Role)}
	}
	return Decision{Action: Render}
}
