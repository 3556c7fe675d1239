package store

import (
	"sync"
	"time"

	"tweet-summarizer-backend/internal/chat"
)

// Session ties a browser session to its conversation store.
type Session struct {
	ID        string
	Username  string
	Chat      *chat.Store
	CreatedAt time.Time

	lastSeen time.Time
}

// MemoryStore keeps logged-in sessions in memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	newChat  func(sessionID string) *chat.Store
	now      func() time.Time
}

// NewMemoryStore builds a registry; newChat creates the conversation store
// for each new login.
func NewMemoryStore(newChat func(sessionID string) *chat.Store) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		newChat:  newChat,
		now:      time.Now,
	}
}

// Login starts a session with a fresh conversation store. Logging in again
// under the same id discards the previous store.
func (m *MemoryStore) Login(sessionID, username string) *Session {
	now := m.now()
	sess := &Session{
		ID:        sessionID,
		Username:  username,
		Chat:      m.newChat(sessionID),
		CreatedAt: now,
		lastSeen:  now,
	}
	m.mu.Lock()
	old := m.sessions[sessionID]
	m.sessions[sessionID] = sess
	m.mu.Unlock()
	if old != nil {
		old.Chat.Close()
	}
	return sess
}

// Get returns the session and refreshes its idle timer.
func (m *MemoryStore) Get(sessionID string) (*Session, bool) {
	if sessionID == "" {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if ok {
		sess.lastSeen = m.now()
	}
	return sess, ok
}

// Logout ends a session and abandons its in-flight submission.
func (m *MemoryStore) Logout(sessionID string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if ok {
		sess.Chat.Close()
	}
	return ok
}

// CleanupIdle drops sessions not seen for longer than maxIdle and returns
// how many were removed.
func (m *MemoryStore) CleanupIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	now := m.now()
	var expired []*Session
	m.mu.Lock()
	for id, sess := range m.sessions {
		if now.Sub(sess.lastSeen) > maxIdle {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, sess := range expired {
		sess.Chat.Close()
	}
	return len(expired)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
