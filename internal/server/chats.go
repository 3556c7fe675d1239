package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tweet-summarizer-backend/internal/chat"
	"tweet-summarizer-backend/internal/types"
)

// GET /api/chats?q=...
// Returns the store snapshot; q filters the list by title.
func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	cs := sessionFrom(r.Context()).Chat
	snap := cs.Snapshot()
	if q := r.URL.Query().Get("q"); q != "" {
		snap.Conversations = filterByTitle(snap.Conversations, q)
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// POST /api/chats
func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r.Context()).Chat.Create()
	s.writeJSON(w, http.StatusCreated, c)
}

// DELETE /api/chats
func (s *Server) handleClearChats(w http.ResponseWriter, r *http.Request) {
	cs := sessionFrom(r.Context()).Chat
	cs.ClearHistory()
	s.writeJSON(w, http.StatusOK, cs.Snapshot())
}

// GET /api/chats/active
func (s *Server) handleActiveChat(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, activeResponse(sessionFrom(r.Context()).Chat))
}

// POST /api/chats/{id}/select
func (s *Server) handleSelectChat(w http.ResponseWriter, r *http.Request) {
	cs := sessionFrom(r.Context()).Chat
	if err := cs.Select(chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cs.Snapshot())
}

// DELETE /api/chats/{id}
func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	cs := sessionFrom(r.Context()).Chat
	if err := cs.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cs.Snapshot())
}

// POST /api/chats/messages
// Accepts {message}; 202 when the summary was started, 409 while another
// one is still pending.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cs := sessionFrom(r.Context()).Chat
	accepted, err := cs.Submit(req.Message)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !accepted {
		s.writeError(w, http.StatusConflict, "a summary is already in progress")
		return
	}
	s.writeJSON(w, http.StatusAccepted, activeResponse(cs))
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case chat.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chat.ErrEmptyMessage):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chat.ErrClosed):
		s.writeError(w, http.StatusUnauthorized, "login required")
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func activeResponse(cs *chat.Store) types.ActiveResponse {
	snap := cs.Snapshot()
	resp := types.ActiveResponse{Loading: snap.Loading, LastError: snap.LastError}
	for _, c := range snap.Conversations {
		if c.ID == snap.ActiveID {
			resp.Conversation = c
		}
	}
	return resp
}

func filterByTitle(convs []chat.Conversation, q string) []chat.Conversation {
	out := make([]chat.Conversation, 0, len(convs))
	for _, c := range convs {
		if chat.TitleMatches(c, q) {
			out = append(out, c)
		}
	}
	return out
}
