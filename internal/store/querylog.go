package store

import (
	"context"
	"time"
)

// QueryRecord is one completed submission.
type QueryRecord struct {
	SessionID      string    `json:"sessionId"`
	ConversationID string    `json:"conversationId"`
	Query          string    `json:"query"`
	Kind           string    `json:"kind"`
	Summary        string    `json:"summary,omitempty"`
	Error          string    `json:"error,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// QueryLog receives a record for every completed submission. It is write
// only; conversation state is never rebuilt from it.
type QueryLog interface {
	Record(ctx context.Context, rec QueryRecord) error
}

type NopQueryLog struct{}

func (NopQueryLog) Record(context.Context, QueryRecord) error { return nil }
