package apitest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eventpass/eventpass-go/eventpass"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req eventpass.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[req.Email]
	if !ok || bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.issueToken(req.Email)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req eventpass.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, http.StatusUnprocessableEntity, "email already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash failure")
		return
	}
	s.accounts[req.Email] = &storedAccount{
		profile: eventpass.UserProfile{
			ID:          s.nextUserID,
			DisplayName: req.DisplayName,
			Email:       req.Email,
			Role:        eventpass.RoleCustomer,
			PhoneNumber: req.PhoneNumber,
		},
		passwordHash: string(hash),
	}
	s.nextUserID++
	writeJSON(w, http.StatusCreated, map[string]string{"token": s.issueToken(req.Email)})
}

// handleRefresh rotates the presented (possibly expired) bearer: the old
// token is revoked and a fresh one minted for the same account, matching the
// backend's session-bound refresh.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refuseRefresh {
		writeError(w, http.StatusUnauthorized, "session expired")
		return
	}

	// The refresh endpoint accepts an expired access token; only revocation
	// and account identity matter here.
	s.expireAll = false
	acct, raw, ok := s.authenticate(r)
	if !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}
	s.revoked[raw] = true
	writeJSON(w, http.StatusOK, map[string]string{"token": s.issueToken(acct.profile.Email)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, raw, ok := s.authenticate(r); ok {
		s.revoked[raw] = true
	}
	// Logout answers 204 regardless; the client clears locally either way.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, _, ok := s.authenticate(r)
	if !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": acct.profile})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, _, ok := s.authenticate(r); !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}
	offset, limit, page, perPage := pageQuery(r, len(s.events))
	writeJSON(w, http.StatusOK, map[string]any{
		"data": s.events[offset:limit],
		"meta": metaFor(page, perPage, len(s.events)),
	})
}

func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, _, ok := s.authenticate(r); !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}
	offset, limit, page, perPage := pageQuery(r, len(s.venues))
	writeJSON(w, http.StatusOK, map[string]any{
		"data": s.venues[offset:limit],
		"meta": metaFor(page, perPage, len(s.venues)),
	})
}

// handleVenueOverride accepts the POST+_method=PUT convention for multipart
// venue updates.
func (s *Server) handleVenueOverride(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, _, ok := s.authenticate(r); !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	if r.FormValue("_method") != "PUT" {
		writeError(w, http.StatusMethodNotAllowed, "missing method override")
		return
	}

	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	for i := range s.venues {
		if s.venues[i].ID != id {
			continue
		}
		if name := r.FormValue("name"); name != "" {
			s.venues[i].Name = name
		}
		if capacity, err := strconv.Atoi(r.FormValue("capacity")); err == nil {
			s.venues[i].Capacity = capacity
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": s.venues[i]})
		return
	}
	writeError(w, http.StatusNotFound, "venue not found")
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, _, ok := s.authenticate(r)
	if !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	var req eventpass.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	for i := range s.events {
		event := &s.events[i]
		if event.ID != req.EventID {
			continue
		}
		if req.Quantity < 1 || req.Quantity > event.TicketQuota-event.TicketsSold {
			writeError(w, http.StatusUnprocessableEntity, "not enough tickets available")
			return
		}
		event.TicketsSold += req.Quantity
		txn := eventpass.Transaction{
			ID:         int64(len(s.transactions) + 1),
			UserID:     acct.profile.ID,
			EventID:    event.ID,
			Quantity:   req.Quantity,
			UnitPrice:  event.TicketPrice,
			Total:      event.TicketPrice * float64(req.Quantity),
			Status:     eventpass.TransactionPaid,
			TicketCode: "TKT-" + strconv.FormatInt(int64(len(s.transactions)+1), 10),
			CreatedAt:  NowTimeFunc(),
		}
		s.transactions = append(s.transactions, txn)
		writeJSON(w, http.StatusCreated, map[string]any{"data": txn})
		return
	}
	writeError(w, http.StatusNotFound, "event not found")
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, _, ok := s.authenticate(r); !ok || acct == nil {
		writeError(w, http.StatusUnauthorized, "token expired")
		return
	}

	filtered := s.transactions
	if userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64); err == nil {
		filtered = []eventpass.Transaction{}
		for _, txn := range s.transactions {
			if txn.UserID == userID {
				filtered = append(filtered, txn)
			}
		}
	}
	if filtered == nil {
		filtered = []eventpass.Transaction{}
	}
	offset, limit, page, perPage := pageQuery(r, len(filtered))
	writeJSON(w, http.StatusOK, map[string]any{
		"data": filtered[offset:limit],
		"meta": metaFor(page, perPage, len(filtered)),
	})
}
