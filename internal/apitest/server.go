// Package apitest runs an in-process EventPass API double for the SDK's
// tests: bcrypt-checked credentials, signed short-lived bearer tokens,
// refresh rotation and paginated resource fixtures.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eventpass/eventpass-go/eventpass"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const tokenTTL = time.Hour

// Account is a seeded user with a plaintext password for test logins.
type Account struct {
	Profile  eventpass.UserProfile
	Password string
}

// Server is the fake API. Zero-value maps are initialised by New.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	signingKey    []byte
	accounts      map[string]*storedAccount // keyed by email
	nextUserID    int64
	events        []eventpass.Event
	venues        []eventpass.Venue
	transactions  []eventpass.Transaction
	revoked       map[string]bool
	refuseRefresh bool
	expireAll     bool
}

type storedAccount struct {
	profile      eventpass.UserProfile
	passwordHash string
}

// New starts the fake API with the given seeded accounts.
func New(t interface{ Cleanup(func()) }, accounts ...Account) *Server {
	s := &Server{
		signingKey: []byte(uuid.New().String()),
		accounts:   make(map[string]*storedAccount),
		revoked:    make(map[string]bool),
		nextUserID: 1,
	}
	for _, acct := range accounts {
		s.seed(acct)
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Server.Close)
	return s
}

func (s *Server) seed(acct Account) {
	hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	profile := acct.Profile
	if profile.ID == 0 {
		profile.ID = s.nextUserID
	}
	if s.nextUserID <= profile.ID {
		s.nextUserID = profile.ID + 1
	}
	s.accounts[profile.Email] = &storedAccount{profile: profile, passwordHash: string(hash)}
}

// SeedEvents replaces the events fixture.
func (s *Server) SeedEvents(events ...eventpass.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// SeedVenues replaces the venues fixture.
func (s *Server) SeedVenues(venues ...eventpass.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues = venues
}

// ExpireAllTokens makes every already-issued bearer fail with 401 until the
// holder refreshes.
func (s *Server) ExpireAllTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireAll = true
}

// RefuseRefresh makes POST /auth/refresh answer 401, simulating a dead
// server-side session.
func (s *Server) RefuseRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refuseRefresh = true
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/me", s.handleMe)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("GET /venues", s.handleListVenues)
	mux.HandleFunc("POST /venues/{id}", s.handleVenueOverride)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	return mux
}

// issueToken mints a signed bearer for the account. The SDK treats it as
// opaque; signing it anyway keeps the fake honest about token identity.
func (s *Server) issueToken(email string) string {
	claims := jwtlib.MapClaims{
		"sub": email,
		"jti": uuid.New().String(),
		"iat": NowTimeFunc().Unix(),
		"exp": NowTimeFunc().Add(tokenTTL).Unix(),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		panic(err)
	}
	return token
}

// authenticate resolves the bearer on r to a seeded account. Must be called
// with s.mu held.
func (s *Server) authenticate(r *http.Request) (*storedAccount, string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, "", false
	}
	raw := parts[1]
	if s.revoked[raw] || s.expireAll {
		return nil, raw, false
	}

	parsed, err := jwtlib.Parse(raw, func(*jwtlib.Token) (any, error) {
		return s.signingKey, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithTimeFunc(NowTimeFunc))
	if err != nil || !parsed.Valid {
		return nil, raw, false
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, raw, false
	}
	acct, ok := s.accounts[subject]
	return acct, raw, ok
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func pageQuery(r *http.Request, total int) (offset, limit, page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = 10
	}
	offset = (page - 1) * perPage
	if offset > total {
		offset = total
	}
	limit = offset + perPage
	if limit > total {
		limit = total
	}
	return offset, limit, page, perPage
}

func metaFor(page, perPage, total int) map[string]int {
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return map[string]int{
		"current_page": page,
		"last_page":    lastPage,
		"per_page":     perPage,
		"total":        total,
	}
}
