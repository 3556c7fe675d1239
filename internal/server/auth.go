package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tweet-summarizer-backend/internal/store"
	"tweet-summarizer-backend/internal/types"
)

type sessionKey struct{}

// POST /api/login
// Any non-empty email and password are accepted; there is no account check.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sid := newSessionID()
	s.sessions.Login(sid, email)
	log.Printf("[session] login %s as %s", sid, email)

	SetSessionCookie(w, r, sid)
	w.Header().Set(SessionHeader, sid)
	s.writeJSON(w, http.StatusOK, types.LoginResponse{SessionID: sid, Username: email, Redirect: "/chat"})
}

// POST /api/logout
// Always succeeds, even without a session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sid := getSessionID(r); sid != "" && s.sessions.Logout(sid) {
		log.Printf("[session] logout %s", sid)
	}
	ClearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, types.LogoutResponse{Redirect: "/login"})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.Get(getSessionID(r))
		if !ok {
			s.writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *store.Session {
	sess, _ := ctx.Value(sessionKey{}).(*store.Session)
	return sess
}

func newSessionID() string {
	return "s_" + uuid.New().String()
}
