package store

import (
	"context"
	"fmt"

	"tweet-summarizer-backend/internal/db"
)

// DatabaseStore writes query records to PostgreSQL.
type DatabaseStore struct {
	db *db.DB
}

func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

// Record inserts one row into query_log.
func (ds *DatabaseStore) Record(ctx context.Context, rec QueryRecord) error {
	if rec.SessionID == "" || rec.ConversationID == "" {
		return fmt.Errorf("session_id and conversation_id are required")
	}

	query := `
		INSERT INTO query_log (session_id, conversation_id, query, kind, summary, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := ds.db.ExecContext(ctx, query,
		rec.SessionID,
		rec.ConversationID,
		rec.Query,
		rec.Kind,
		rec.Summary,
		rec.Error,
		rec.StartedAt,
		rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}
