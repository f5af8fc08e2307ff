package eventpass_test

import (
	"context"
	"testing"

	"github.com/eventpass/eventpass-go/credentials/storefakes"
	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/httpclient"
	"github.com/eventpass/eventpass-go/internal/apitest"
	"github.com/eventpass/eventpass-go/session"
	"github.com/stretchr/testify/require"
)

const (
	aliceEmail    = "alice@example.com"
	alicePassword = "Password1"
)

type sdk struct {
	server *apitest.Server
	api    *eventpass.API
	ctrl   *session.Controller
	store  *storefakes.MemoryStore
}

// setupSDK wires the full stack the way cmd/eventpass does: one HTTP
// pipeline, the resource clients on top, the session controller bound in as
// authorizer.
func setupSDK(t *testing.T) *sdk {
	t.Helper()

	server := apitest.New(t, apitest.Account{
		Profile:  eventpass.UserProfile{ID: 7, DisplayName: "Alice", Email: aliceEmail, Role: eventpass.RoleCustomer},
		Password: alicePassword,
	})
	server.SeedEvents(
		eventpass.Event{ID: 1, Name: "Midnight Run", TicketPrice: 25, TicketQuota: 100, TicketsSold: 98},
		eventpass.Event{ID: 2, Name: "Expo", TicketPrice: 10, TicketQuota: 50},
		eventpass.Event{ID: 3, Name: "Derby", TicketPrice: 40, TicketQuota: 500, TicketsSold: 11},
	)
	server.SeedVenues(
		eventpass.Venue{ID: 3, Name: "Arena", City: "Graz", Capacity: 1200, VenueTypeID: 1},
	)

	client := httpclient.New(server.URL)
	api := eventpass.NewAPI(client)
	store := storefakes.NewMemoryStore()
	ctrl := session.New(api.Auth, store)
	client.BindAuthorizer(ctrl)

	return &sdk{server: server, api: api, ctrl: ctrl, store: store}
}

func TestLoginFlow(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()

	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	token, ok := s.store.Get()
	require.True(t, ok)
	require.NotEmpty(t, token)

	snap := s.ctrl.Snapshot()
	require.Equal(t, aliceEmail, snap.CurrentUser.Email)
	require.Equal(t, "Alice", snap.CurrentUser.DisplayName)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := setupSDK(t)

	err := s.ctrl.Login(context.Background(), aliceEmail, "nope")
	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.Equal(t, session.Anonymous, s.ctrl.State())
}

func TestRegisterBehavesLikeLogin(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()

	require.NoError(t, s.ctrl.Register(ctx, eventpass.RegisterRequest{
		DisplayName: "Bob",
		Email:       "bob@example.com",
		Password:    "Password2",
	}))

	snap := s.ctrl.Snapshot()
	require.Equal(t, "bob@example.com", snap.CurrentUser.Email)
	require.Equal(t, eventpass.RoleCustomer, snap.CurrentUser.Role)
	_, ok := s.store.Get()
	require.True(t, ok)
}

func TestExpiredTokenIsRefreshedTransparently(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))
	before, _ := s.store.Get()

	// Server-side expiry: the next /events call 401s, the pipeline refreshes
	// through the session controller and replays, the caller sees success.
	s.server.ExpireAllTokens()

	page, err := s.api.Events.List(ctx, httpclient.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)

	after, ok := s.store.Get()
	require.True(t, ok)
	require.NotEqual(t, before, after, "refresh must rotate the persisted token")
	require.Equal(t, session.Authenticated, s.ctrl.State())
}

func TestDeadSessionSurfaces401AndLogsOut(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	s.server.ExpireAllTokens()
	s.server.RefuseRefresh()

	_, err := s.api.Events.List(ctx, httpclient.PageRequest{})
	require.True(t, httpclient.IsUnauthorized(err), "original 401 must not be masked")

	require.Equal(t, session.Anonymous, s.ctrl.State())
	_, ok := s.store.Get()
	require.False(t, ok)
}

func TestBootstrapRefreshesExpiredPersistedToken(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	// The persisted token expires between runs. On restart, Bootstrap's
	// profile fetch 401s, the pipeline refreshes and replays, and the
	// caller still gets a resolved session.
	s.server.ExpireAllTokens()
	before, _ := s.store.Get()

	client := httpclient.New(s.server.URL)
	api := eventpass.NewAPI(client)
	ctrl := session.New(api.Auth, s.store)
	client.BindAuthorizer(ctrl)

	require.NoError(t, ctrl.Bootstrap(ctx))

	snap := ctrl.Snapshot()
	require.Equal(t, aliceEmail, snap.CurrentUser.Email)
	require.False(t, snap.IsLoadingUser)
	require.Equal(t, session.Authenticated, ctrl.State())

	after, ok := s.store.Get()
	require.True(t, ok)
	require.NotEqual(t, before, after, "refresh must rotate the persisted token")
}

func TestEventListPagination(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	page, err := s.api.Events.List(ctx, httpclient.PageRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	require.Equal(t, "Derby", page.Data[0].Name)
	require.Equal(t, 2, page.Meta.CurrentPage)
	require.Equal(t, 2, page.Meta.LastPage)
	require.Equal(t, 3, page.Meta.Total)
	require.False(t, page.HasNext())
}

func TestGetUnknownEventIsNotFound(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	_, err := s.api.Events.Get(ctx, 999)
	require.True(t, httpclient.IsNotFound(err))

	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "event not found", apiErr.Message)
}

func TestPurchaseFlowAndHistory(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	events, err := s.api.Events.List(ctx, httpclient.PageRequest{})
	require.NoError(t, err)

	run := events.Data[0]
	require.Equal(t, 2, eventpass.Availability(run))

	summary, err := eventpass.BuildOrderSummary([]eventpass.TicketSelection{{Event: run, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, 50.0, summary.Subtotal)

	txn, err := s.api.Transactions.Create(ctx, eventpass.PurchaseRequest{EventID: run.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, eventpass.TransactionPaid, txn.Status)
	require.NotEmpty(t, txn.TicketCode)
	require.Equal(t, 50.0, txn.Total)

	// Sold out now; a further purchase is refused by the backend.
	_, err = s.api.Transactions.Create(ctx, eventpass.PurchaseRequest{EventID: run.ID, Quantity: 1})
	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "not enough tickets available", apiErr.Message)

	history, err := s.api.Transactions.ListForUser(ctx, 7, httpclient.PageRequest{})
	require.NoError(t, err)
	require.Len(t, history.Data, 1)
	require.Equal(t, run.ID, history.Data[0].EventID)

	history, err = s.api.Transactions.ListForUser(ctx, 99, httpclient.PageRequest{})
	require.NoError(t, err)
	require.Empty(t, history.Data)
}

func TestVenueMultipartUpdateWithMethodOverride(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	updated, err := s.api.Venues.UpdateWithImage(ctx, 3, eventpass.VenueFields{
		Name:        "Arena North",
		Address:     "Ringstrasse 1",
		City:        "Graz",
		Capacity:    1500,
		VenueTypeID: 1,
	}, eventpass.ImageUpload{Filename: "venue.png", Content: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	require.Equal(t, "Arena North", updated.Name)
	require.Equal(t, 1500, updated.Capacity)
}

func TestPersistedSessionSurvivesRestart(t *testing.T) {
	s := setupSDK(t)
	ctx := context.Background()
	require.NoError(t, s.ctrl.Login(ctx, aliceEmail, alicePassword))

	// A fresh controller over the same store picks the token up and resolves
	// the user, the application-start bootstrap path.
	client := httpclient.New(s.server.URL)
	api := eventpass.NewAPI(client)
	ctrl := session.New(api.Auth, s.store)
	client.BindAuthorizer(ctrl)

	require.Equal(t, session.Authenticated, ctrl.State())
	require.NoError(t, ctrl.Bootstrap(ctx))
	require.Equal(t, aliceEmail, ctrl.Snapshot().CurrentUser.Email)
}
