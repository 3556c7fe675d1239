package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet-summarizer-backend/internal/chat"
)

// gatedGenerator blocks every Summarize call until release is closed.
type gatedGenerator struct {
	release chan struct{}
	err     error
	calls   int
	mu      sync.Mutex
}

func newGatedGenerator() *gatedGenerator {
	return &gatedGenerator{release: make(chan struct{})}
}

func (g *gatedGenerator) Summarize(ctx context.Context, query string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if g.err != nil {
		return "", g.err
	}
	return "summary of " + query, nil
}

func (g *gatedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, time.April, 16, 14, 5, 0, 0, time.UTC) }
}

func newStore(t *testing.T, gen chat.Generator, opts ...chat.Option) *chat.Store {
	t.Helper()
	base := []chat.Option{chat.WithClock(fixedClock()), chat.WithIDGenerator(sequentialIDs())}
	s := chat.NewStore(gen, append(base, opts...)...)
	t.Cleanup(s.Close)
	return s
}

func activeIDs(snap chat.Snapshot) []string {
	var ids []string
	for _, c := range snap.Conversations {
		if c.Active {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func waitIdle(t *testing.T, s *chat.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestNewStore_StartsWithOneEmptyActiveConversation(t *testing.T) {
	s := newStore(t, newGatedGenerator())

	snap := s.Snapshot()
	require.Len(t, snap.Conversations, 1)
	c := snap.Conversations[0]
	assert.Equal(t, chat.DefaultTitle, c.Title)
	assert.Equal(t, "April 16, 2025", c.CreatedDate)
	assert.True(t, c.Active)
	assert.Empty(t, c.Messages)
	assert.Equal(t, c.ID, snap.ActiveID)
	assert.False(t, snap.Loading)
}

func TestNewStore_NormalizesSeedActiveFlags(t *testing.T) {
	tests := []struct {
		name       string
		seed       []chat.Conversation
		wantActive string
	}{
		{
			name:       "none active activates first",
			seed:       []chat.Conversation{{ID: "a"}, {ID: "b"}},
			wantActive: "a",
		},
		{
			name:       "several active keeps first",
			seed:       []chat.Conversation{{ID: "a"}, {ID: "b", Active: true}, {ID: "c", Active: true}},
			wantActive: "b",
		},
		{
			name:       "demo history",
			seed:       chat.DemoHistory(),
			wantActive: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, newGatedGenerator(), chat.WithSeed(tt.seed))
			assert.Equal(t, []string{tt.wantActive}, activeIDs(s.Snapshot()))
		})
	}
}

func TestStore_CreateActivatesNewestAtFront(t *testing.T) {
	s := newStore(t, newGatedGenerator())
	first := s.Active()

	var last chat.Conversation
	for i := 0; i < 4; i++ {
		last = s.Create()
		snap := s.Snapshot()
		assert.Equal(t, []string{last.ID}, activeIDs(snap))
		assert.Equal(t, last.ID, snap.Conversations[0].ID)
	}

	snap := s.Snapshot()
	require.Len(t, snap.Conversations, 5)
	assert.Equal(t, first.ID, snap.Conversations[4].ID)
	assert.False(t, snap.Conversations[4].Active)
	assert.Equal(t, chat.DefaultTitle, last.Title)
}

func TestStore_SelectExisting(t *testing.T) {
	s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))

	require.NoError(t, s.Select("2"))

	snap := s.Snapshot()
	assert.Equal(t, []string{"2"}, activeIDs(snap))
	assert.Equal(t, "2", snap.ActiveID)
	assert.Equal(t, "SpaceX Launch Coverage", s.Active().Title)
}

func TestStore_SelectUnknownLeavesActiveUnchanged(t *testing.T) {
	s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))

	err := s.Select("missing")

	require.Error(t, err)
	assert.True(t, chat.IsNotFound(err))
	var nf *chat.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.ID)
	assert.Equal(t, []string{"1"}, activeIDs(s.Snapshot()))
}

func TestStore_Delete(t *testing.T) {
	t.Run("inactive conversation keeps active", func(t *testing.T) {
		s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))

		require.NoError(t, s.Delete("2"))

		snap := s.Snapshot()
		require.Len(t, snap.Conversations, 1)
		assert.Equal(t, "1", snap.ActiveID)
	})

	t.Run("active conversation activates first remaining", func(t *testing.T) {
		s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))
		created := s.Create()

		require.NoError(t, s.Delete(created.ID))

		snap := s.Snapshot()
		require.Len(t, snap.Conversations, 2)
		assert.Equal(t, []string{"1"}, activeIDs(snap))
	})

	t.Run("only conversation is replaced by a fresh one", func(t *testing.T) {
		s := newStore(t, newGatedGenerator())
		only := s.Active()

		require.NoError(t, s.Delete(only.ID))

		snap := s.Snapshot()
		require.Len(t, snap.Conversations, 1)
		assert.NotEqual(t, only.ID, snap.Conversations[0].ID)
		assert.True(t, snap.Conversations[0].Active)
		assert.Empty(t, snap.Conversations[0].Messages)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))

		err := s.Delete("missing")

		assert.True(t, chat.IsNotFound(err))
		assert.Len(t, s.Snapshot().Conversations, 2)
	})
}

func TestStore_ClearHistory(t *testing.T) {
	s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))

	for i := 0; i < 2; i++ {
		c := s.ClearHistory()
		snap := s.Snapshot()
		require.Len(t, snap.Conversations, 1)
		assert.Equal(t, c.ID, snap.ActiveID)
		assert.Empty(t, snap.Conversations[0].Messages)
		assert.Equal(t, chat.DefaultTitle, snap.Conversations[0].Title)
	}
}

func TestStore_SubmitRoundTrip(t *testing.T) {
	gen := newGatedGenerator()
	s := newStore(t, gen, chat.WithSeed(chat.DemoHistory()))
	require.NoError(t, s.Select("2"))
	before := len(s.Active().Messages)

	ok, err := s.Submit("hello")
	require.NoError(t, err)
	require.True(t, ok)

	active := s.Active()
	require.Len(t, active.Messages, before+1)
	last := active.Messages[before]
	assert.Equal(t, chat.RoleUser, last.Role)
	assert.Equal(t, "hello", last.Content)
	assert.Equal(t, "2:05 PM", last.Timestamp)
	assert.True(t, s.Loading())

	close(gen.release)
	waitIdle(t, s)

	active = s.Active()
	require.Len(t, active.Messages, before+2)
	assert.Equal(t, chat.RoleUser, active.Messages[before].Role)
	assert.Equal(t, chat.RoleAssistant, active.Messages[before+1].Role)
	assert.Equal(t, "summary of hello", active.Messages[before+1].Content)
	assert.False(t, s.Loading())

	first := s.Snapshot().Conversations[0]
	assert.Len(t, first.Messages, 2, "other conversations are untouched")
}

func TestStore_SubmitWhileLoadingIsNoOp(t *testing.T) {
	gen := newGatedGenerator()
	s := newStore(t, gen)

	ok, err := s.Submit("first")
	require.NoError(t, err)
	require.True(t, ok)
	before := s.Snapshot()

	ok, err = s.Submit("second")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())

	close(gen.release)
	waitIdle(t, s)
	assert.Equal(t, 1, gen.Calls())
}

func TestStore_SubmitRejectsBlankText(t *testing.T) {
	s := newStore(t, newGatedGenerator())

	for _, text := range []string{"", "   ", "\n\t"} {
		ok, err := s.Submit(text)
		assert.ErrorIs(t, err, chat.ErrEmptyMessage)
		assert.False(t, ok)
	}
	assert.Empty(t, s.Active().Messages)
	assert.False(t, s.Loading())
}

func TestStore_SubmitSetsTitleOnlyOnFirstMessage(t *testing.T) {
	gen := newGatedGenerator()
	close(gen.release)
	s := newStore(t, gen)

	_, err := s.Submit("a very long query about the election results")
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Equal(t, "a very long query ab...", s.Active().Title)

	_, err = s.Submit("short")
	require.NoError(t, err)
	waitIdle(t, s)
	assert.Equal(t, "a very long query ab...", s.Active().Title)
}

func TestStore_ReplyFollowsOriginatingConversation(t *testing.T) {
	gen := newGatedGenerator()
	s := newStore(t, gen, chat.WithSeed(chat.DemoHistory()))

	_, err := s.Submit("tweets about rust")
	require.NoError(t, err)
	other := s.Create()

	close(gen.release)
	waitIdle(t, s)

	assert.Equal(t, other.ID, s.Snapshot().ActiveID)
	assert.Empty(t, s.Active().Messages)
	for _, c := range s.Snapshot().Conversations {
		if c.ID == "1" {
			require.Len(t, c.Messages, 4)
			assert.Equal(t, chat.RoleAssistant, c.Messages[3].Role)
		}
	}
}

func TestStore_ReplyDroppedWhenConversationDeleted(t *testing.T) {
	gen := newGatedGenerator()
	s := newStore(t, gen, chat.WithSeed(chat.DemoHistory()))

	_, err := s.Submit("gone soon")
	require.NoError(t, err)
	require.NoError(t, s.Delete("1"))

	close(gen.release)
	waitIdle(t, s)

	snap := s.Snapshot()
	require.Len(t, snap.Conversations, 1)
	assert.Len(t, snap.Conversations[0].Messages, 2)
	assert.False(t, snap.Loading)
}

func TestStore_ClearHistoryAbandonsPendingSubmission(t *testing.T) {
	gen := newGatedGenerator()
	var completions []chat.Completion
	s := newStore(t, gen, chat.WithCompletionHook(func(c chat.Completion) {
		completions = append(completions, c)
	}))

	_, err := s.Submit("cancel me")
	require.NoError(t, err)
	s.ClearHistory()

	assert.False(t, s.Loading())
	waitIdle(t, s)

	ok, err := s.Submit("next")
	require.NoError(t, err)
	assert.True(t, ok)
	close(gen.release)
	waitIdle(t, s)

	require.Len(t, s.Active().Messages, 2)
	require.Len(t, completions, 1)
	assert.Equal(t, "next", completions[0].Query)
}

func TestStore_GeneratorFailureRecordsLastError(t *testing.T) {
	gen := newGatedGenerator()
	gen.err = errors.New("upstream unavailable")
	close(gen.release)
	var got chat.Completion
	s := newStore(t, gen, chat.WithCompletionHook(func(c chat.Completion) { got = c }))

	_, err := s.Submit("anything")
	require.NoError(t, err)
	waitIdle(t, s)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, "upstream unavailable", snap.LastError)
	assert.Len(t, s.Active().Messages, 1)
	assert.EqualError(t, got.Err, "upstream unavailable")
}

func TestStore_CloseRejectsSubmissions(t *testing.T) {
	gen := newGatedGenerator()
	s := newStore(t, gen)

	_, err := s.Submit("in flight")
	require.NoError(t, err)
	s.Close()

	assert.False(t, s.Loading())
	ok, err := s.Submit("after close")
	assert.ErrorIs(t, err, chat.ErrClosed)
	assert.False(t, ok)
}

func TestTitleMatches(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"1", "2"}},
		{query: "spacex", want: []string{"2"}},
		{query: "  CONFERENCE ", want: []string{"1"}},
		{query: "nothing", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []string
			for _, c := range chat.DemoHistory() {
				if chat.TitleMatches(c, tt.query) {
					ids = append(ids, c.ID)
				}
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := newStore(t, newGatedGenerator(), chat.WithSeed(chat.DemoHistory()))

	snap := s.Snapshot()
	snap.Conversations[0].Title = "mutated"
	snap.Conversations[0].Messages[0].Content = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "AI Conference Updates", fresh.Conversations[0].Title)
	assert.Equal(t, "#AIConference trending tweets", fresh.Conversations[0].Messages[0].Content)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hello", want: "hello"},
		{in: "exactly twenty chars", want: "exactly twenty chars"},
		{in: "twenty one characters", want: "twenty one character..."},
		{in: "  padded  ", want: "padded"},
		{in: strings.Repeat("é", 21), want: strings.Repeat("é", 20) + "..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chat.Title(tt.in), tt.in)
	}
}
