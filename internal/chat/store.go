package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces the assistant reply for a submitted query.
type Generator interface {
	Summarize(ctx context.Context, query string) (string, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for display dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how conversation and message ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithSeed starts the store with the given conversations instead of a
// single empty one.
func WithSeed(convs []Conversation) Option {
	return func(s *Store) {
		s.conversations = make([]Conversation, 0, len(convs))
		for _, c := range convs {
			s.conversations = append(s.conversations, c.clone())
		}
	}
}

// WithCompletionHook registers fn to run after every submission that was not
// cancelled. fn runs outside the store lock.
func WithCompletionHook(fn func(Completion)) Option {
	return func(s *Store) { s.onComplete = fn }
}

type submission struct {
	cancel         context.CancelFunc
	done           chan struct{}
	conversationID string
	query          string
	startedAt      time.Time
}

// Store owns a conversation collection and which entry is active. At most
// one submission is in flight at a time.
type Store struct {
	mu            sync.Mutex
	conversations []Conversation
	pending       *submission
	lastErr       string
	closed        bool

	gen        Generator
	now        func() time.Time
	newID      func() string
	onComplete func(Completion)
}

func NewStore(gen Generator, opts ...Option) *Store {
	s := &Store{
		gen:   gen,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.conversations) == 0 {
		s.conversations = []Conversation{s.freshLocked()}
	}
	s.normalizeActiveLocked()
	return s
}

// Select makes id the only active conversation. An unknown id leaves the
// state unchanged.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) < 0 {
		return &NotFoundError{ID: id}
	}
	s.activateLocked(id)
	return nil
}

// Create inserts a new empty active conversation at the front.
func (s *Store) Create() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.freshLocked()
	s.activateLocked("")
	s.conversations = append([]Conversation{c}, s.conversations...)
	return c.clone()
}

// Delete removes a conversation. Deleting the active one activates the
// first remaining conversation, or a fresh one when none remain.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	wasActive := s.conversations[i].Active
	s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
	if len(s.conversations) == 0 {
		s.conversations = []Conversation{s.freshLocked()}
		return nil
	}
	if wasActive {
		s.activateLocked(s.conversations[0].ID)
	}
	return nil
}

// ClearHistory replaces every conversation with one fresh active
// conversation and abandons any in-flight submission.
func (s *Store) ClearHistory() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked()
	s.lastErr = ""
	c := s.freshLocked()
	s.conversations = []Conversation{c}
	return c.clone()
}

// Submit appends a user message to the active conversation and asks the
// generator for a reply. It reports false without touching state when a
// submission is already in flight.
func (s *Store) Submit(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, ErrEmptyMessage
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	if s.pending != nil {
		s.mu.Unlock()
		return false, nil
	}
	conv := &s.conversations[s.activeIndexLocked()]
	if len(conv.Messages) == 0 {
		conv.Title = Title(text)
	}
	now := s.now()
	conv.Messages = append(conv.Messages, Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: now.Format(TimeLayout),
	})
	ctx, cancel := context.WithCancel(context.Background())
	sub := &submission{
		cancel:         cancel,
		done:           make(chan struct{}),
		conversationID: conv.ID,
		query:          text,
		startedAt:      now,
	}
	s.pending = sub
	s.lastErr = ""
	s.mu.Unlock()

	go s.complete(ctx, sub)
	return true, nil
}

func (s *Store) complete(ctx context.Context, sub *submission) {
	defer sub.cancel()
	summary, err := s.gen.Summarize(ctx, sub.query)

	s.mu.Lock()
	if s.pending != sub {
		// detached by ClearHistory or Close
		s.mu.Unlock()
		return
	}
	s.pending = nil
	finished := s.now()
	if err != nil {
		s.lastErr = err.Error()
	} else if i := s.indexLocked(sub.conversationID); i >= 0 {
		s.conversations[i].Messages = append(s.conversations[i].Messages, Message{
			ID:        s.newID(),
			Role:      RoleAssistant,
			Content:   summary,
			Timestamp: finished.Format(TimeLayout),
		})
	}
	hook := s.onComplete
	s.mu.Unlock()
	defer close(sub.done)

	if hook != nil {
		hook(Completion{
			ConversationID: sub.conversationID,
			Query:          sub.query,
			Summary:        summary,
			Err:            err,
			StartedAt:      sub.startedAt,
			FinishedAt:     finished,
		})
	}
}

// Wait blocks until no submission is in flight or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	s.mu.Lock()
	sub := s.pending
	s.mu.Unlock()
	if sub == nil {
		return nil
	}
	select {
	case <-sub.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close abandons any in-flight submission and rejects further submissions.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked()
	s.closed = true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{
		Conversations: make([]Conversation, 0, len(s.conversations)),
		Loading:       s.pending != nil,
		LastError:     s.lastErr,
	}
	for _, c := range s.conversations {
		if c.Active {
			out.ActiveID = c.ID
		}
		out.Conversations = append(out.Conversations, c.clone())
	}
	return out
}

func (s *Store) Active() Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversations[s.activeIndexLocked()].clone()
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Store) freshLocked() Conversation {
	return Conversation{
		ID:          s.newID(),
		Title:       DefaultTitle,
		CreatedDate: s.now().Format(DateLayout),
		Active:      true,
		Messages:    []Message{},
	}
}

func (s *Store) detachLocked() {
	if s.pending == nil {
		return
	}
	s.pending.cancel()
	close(s.pending.done)
	s.pending = nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) activateLocked(id string) {
	for i := range s.conversations {
		s.conversations[i].Active = s.conversations[i].ID == id
	}
}

// activeIndexLocked relies on the collection never being empty.
func (s *Store) activeIndexLocked() int {
	for i := range s.conversations {
		if s.conversations[i].Active {
			return i
		}
	}
	return 0
}

// normalizeActiveLocked keeps the first active entry, or activates the
// first conversation when none is marked.
func (s *Store) normalizeActiveLocked() {
	s.activateLocked(s.conversations[s.activeIndexLocked()].ID)
}
