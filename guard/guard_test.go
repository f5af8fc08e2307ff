package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/guard"
	"github.com/eventpass/eventpass-go/session"
	"github.com/stretchr/testify/require"
)

func customer() *eventpass.UserProfile {
	return &eventpass.UserProfile{ID: 1, Email: "c@x.com", Role: eventpass.RoleCustomer}
}

func admin() *eventpass.UserProfile {
	return &eventpass.UserProfile{ID: 2, Email: "a@x.com", Role: eventpass.RoleAdmin}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		snap    session.Session
		allowed []eventpass.Role
		want    guard.Decision
	}{
		{
			name: "loading user shows placeholder, never redirects",
			snap: session.Session{IsLoadingUser: true},
			want: guard.Decision{Action: guard.ShowLoading},
		},
		{
			name:    "loading wins even with a role mismatch pending",
			snap:    session.Session{IsLoadingUser: true, CurrentUser: customer()},
			allowed: []eventpass.Role{eventpass.RoleAdmin},
			want:    guard.Decision{Action: guard.ShowLoading},
		},
		{
			name: "anonymous redirects to login",
			snap: session.Session{},
			want: guard.Decision{Action: guard.Redirect, Target: session.RouteLogin},
		},
		{
			name: "authenticated with no allowlist renders",
			snap: session.Session{CurrentUser: customer(), Token: "T1"},
			want: guard.Decision{Action: guard.Render},
		},
		{
			name:    "customer on admin route goes to customer home",
			snap:    session.Session{CurrentUser: customer(), Token: "T1"},
			allowed: []eventpass.Role{eventpass.RoleAdmin},
			want:    guard.Decision{Action: guard.Redirect, Target: session.RouteCustomerHome},
		},
		{
			name:    "admin on customer route goes to admin home",
			snap:    session.Session{CurrentUser: admin(), Token: "T1"},
			allowed: []eventpass.Role{eventpass.RoleCustomer},
			want:    guard.Decision{Action: guard.Redirect, Target: session.RouteAdminHome},
		},
		{
			name:    "role in allowlist renders",
			snap:    session.Session{CurrentUser: admin(), Token: "T1"},
			allowed: []eventpass.Role{eventpass.RoleAdmin},
			want:    guard.Decision{Action: guard.Render},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, guard.Evaluate(tc.snap, tc.allowed))
		})
	}
}

func TestMiddlewareRedirectsAnonymous(t *testing.T) {
	handler := guard.Middleware(func() session.Session { return session.Session{} })(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("protected handler must not run")
		})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, string(session.RouteLogin), rec.Header().Get("Location"))
}

func TestMiddlewareRendersForAllowedRole(t *testing.T) {
	ran := false
	handler := guard.Middleware(func() session.Session {
		return session.Session{CurrentUser: admin(), Token: "T1"}
	}, eventpass.RoleAdmin)(
		func(w http.ResponseWriter, r *http.Request) {
			ran = true
		})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	require.True(t, ran)
}

func TestMiddlewareHoldsWhileLoading(t *testing.T) {
	handler := guard.Middleware(func() session.Session {
		return session.Session{IsLoadingUser: true}
	})(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("protected handler must not run while loading")
		})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
}
