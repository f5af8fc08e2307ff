package guard

import (
	"net/http"

	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/session"
)

// SnapshotFunc supplies the session state for each request.
type SnapshotFunc func() session.Session

// Middleware wraps a handler with the guard decision for server-rendered
// frontends. While the user is still loading it answers 200 with a retry
// hint instead of redirecting.
func Middleware(snapshot SnapshotFunc, allowedRoles ...eventpass.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			decision := Evaluate(snapshot(), allowedRoles)
			switch decision.Action {
			case ShowLoading:
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusOK)
			case Redirect:
				http.Redirect(w, r, string(decision.Target), http.StatusSeeOther)
			default:
				next(w, r)
			}
		}
	}
}
