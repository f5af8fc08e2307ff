package session

import (
	"context"
	"errors"
	"sync"

	"github.com/eventpass/eventpass-go/credentials"
	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/httpclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// API is the slice of the EventPass API the controller needs.
// *eventpass.AuthAPI satisfies it; tests use a scripted fake.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req eventpass.RegisterRequest) (string, error)
	Refresh(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*eventpass.UserProfile, error)
}

// Controller is the single owner of session state. All mutations go through
// its operations; everything else reads snapshots.
//
// Every login, register and reset bumps an epoch counter. In-flight
// fetch/refresh responses capture the epoch they were issued under and are
// discarded if a newer login or logout has moved it on, so a late response
// can never overwrite fresher state. Rotating the token within the same
// session does not bump the epoch: the pipeline's transparent refresh must
// not invalidate the very request it is refreshing for.
type Controller struct {
	api    API
	store  credentials.Store
	nav    Navigator
	logger zerolog.Logger

	mu          sync.Mutex
	state       State
	token       string
	user        *eventpass.UserProfile
	loadingUser bool
	lastError   string
	epoch       uint64
}

var _ httpclient.Authorizer = (*Controller)(nil)

// Option configures a Controller.
type Option func(*Controller)

// WithNavigator attaches the view layer's navigation sink.
func WithNavigator(nav Navigator) Option {
	return func(c *Controller) {
		c.nav = nav
	}
}

// WithLogger replaces the package-level logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates a controller. If the credential store holds a persisted token
// the session starts authenticated with no user loaded yet; callers should
// follow up with Bootstrap to resolve the profile.
func New(api API, store credentials.Store, options ...Option) *Controller {
	c := &Controller{
		api:    api,
		store:  store,
		logger: log.Logger,
		state:  Anonymous,
	}
	for _, opt := range options {
		opt(c)
	}
	if token, ok := store.Get(); ok {
		c.token = token
		c.state = Authenticated
		c.epoch++
	}
	return c
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Session{
		CurrentUser:   c.user,
		Token:         c.token,
		IsLoadingUser: c.loadingUser,
		LastError:     c.lastError,
	}
}

// State returns the controller's lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Token implements httpclient.Authorizer.
func (c *Controller) Token() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.token != ""
}

// Bootstrap resolves the user profile for a token restored from the store.
// A session with no persisted token is a no-op.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	if c.token == "" {
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.mu.Unlock()
	return c.loadUser(ctx, epoch)
}

// Login exchanges credentials for a token, persists it, resolves the user
// profile and signals navigation to the role's landing page. On failure the
// session stays anonymous with a user-facing error recorded; nothing is
// persisted.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.beginAuthenticating()

	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.failAuthenticating(err)
		return err
	}

	epoch := c.adoptToken(token)
	if err := c.loadUser(ctx, epoch); err != nil {
		return err
	}
	c.navigateHome()
	return nil
}

// Register creates an account; a successful registration behaves exactly
// like a successful login.
func (c *Controller) Register(ctx context.Context, req eventpass.RegisterRequest) error {
	c.beginAuthenticating()

	token, err := c.api.Register(ctx, req)
	if err != nil {
		c.failAuthenticating(err)
		return err
	}

	epoch := c.adoptToken(token)
	if err := c.loadUser(ctx, epoch); err != nil {
		return err
	}
	c.navigateHome()
	return nil
}

// FetchUser refreshes the current user's profile. On any failure the token
// is presumed invalid and the session is torn down: an invalid token must
// not linger with a stale or absent user.
func (c *Controller) FetchUser(ctx context.Context) error {
	c.mu.Lock()
	if c.token == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	epoch := c.epoch
	c.mu.Unlock()
	return c.loadUser(ctx, epoch)
}

// RefreshToken exchanges the current token for a new one, persisting it in
// both the session and the credential store. On failure the session is torn
// down and no token is returned, which the HTTP pipeline treats as a
// terminal authorization failure. Implements httpclient.Authorizer.
func (c *Controller) RefreshToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.token == "" {
		c.mu.Unlock()
		return "", ErrNoSession
	}
	epoch := c.epoch
	c.state = Refreshing
	c.mu.Unlock()

	token, err := c.api.Refresh(ctx)

	if err != nil {
		c.mu.Lock()
		stale := epoch != c.epoch
		c.mu.Unlock()
		if stale {
			c.logger.Debug().Msg("discarding refresh failure for superseded session")
			return "", ErrSuperseded
		}
		c.logger.Debug().Err(err).Msg("token refresh failed, tearing session down")
		c.Logout(ctx)
		return "", err
	}

	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.logger.Debug().Msg("discarding refresh result for superseded session")
		return "", ErrSuperseded
	}
	c.token = token
	if c.user != nil {
		c.state = Authenticated
	}
	c.store.Set(token)
	c.mu.Unlock()
	return token, nil
}

// Logout notifies the server best-effort, then unconditionally clears the
// credential store and the session and signals navigation to the login
// page. Logout always succeeds locally.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	hadToken := c.token != ""
	c.mu.Unlock()

	if hadToken {
		if err := c.api.Logout(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("logout notification failed, clearing session anyway")
		}
	}
	c.Reset()
	c.navigate(RouteLogin)
}

// Reset clears the session and the credential store without a server round
// trip or navigation. The explicit lifecycle counterpart to New.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.store.Clear()
	c.token = ""
	c.user = nil
	c.loadingUser = false
	c.lastError = ""
	c.state = Anonymous
	c.epoch++
	c.mu.Unlock()
}

// UpdateUserInfo merges a partial profile into the current user without a
// round trip, for use after a profile-edit call already succeeded.
func (c *Controller) UpdateUserInfo(patch eventpass.ProfilePatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return
	}
	updated := patch.Apply(*c.user)
	c.user = &updated
}

// loadUser fetches /auth/me under the given session epoch. A response from
// a superseded epoch is discarded; the epoch's new owner already set the
// session state, so the stale branch only clears its own loading flag.
func (c *Controller) loadUser(ctx context.Context, epoch uint64) error {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.loadingUser = true
	c.state = Refreshing
	c.mu.Unlock()

	user, err := c.api.Me(ctx)

	c.mu.Lock()
	if epoch != c.epoch {
		c.loadingUser = false
		c.mu.Unlock()
		c.logger.Debug().Msg("discarding user fetch for superseded session")
		return ErrSuperseded
	}
	if err != nil {
		c.loadingUser = false
		c.mu.Unlock()
		c.logger.Debug().Err(err).Msg("user fetch failed, tearing session down")
		c.Logout(ctx)
		return err
	}
	c.user = user
	c.loadingUser = false
	c.lastError = ""
	c.state = Authenticated
	c.mu.Unlock()
	return nil
}

func (c *Controller) beginAuthenticating() {
	c.mu.Lock()
	c.state = Authenticating
	c.lastError = ""
	c.mu.Unlock()
}

func (c *Controller) failAuthenticating(err error) {
	c.mu.Lock()
	if c.state == Authenticating {
		c.state = Anonymous
	}
	c.lastError = userMessage(err)
	c.mu.Unlock()
}

// adoptToken installs a fresh token into the session and the store, opening
// a new epoch so in-flight work under the old session is discarded.
func (c *Controller) adoptToken(token string) uint64 {
	c.mu.Lock()
	c.token = token
	c.epoch++
	epoch := c.epoch
	c.state = Authenticated
	c.store.Set(token)
	c.mu.Unlock()
	return epoch
}

func (c *Controller) navigateHome() {
	c.mu.Lock()
	role := eventpass.RoleCustomer
	if c.user != nil {
		role = c.user.Role
	}
	c.mu.Unlock()
	c.navigate(HomeRoute(role))
}

func (c *Controller) navigate(route Route) {
	if c.nav == nil {
		return
	}
	c.nav.NavigateTo(route)
}

// userMessage maps an error onto what a form should display: validation
// messages verbatim, everything else generic.
func userMessage(err error) string {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "something went wrong, please try again"
}
