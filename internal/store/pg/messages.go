package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/casavoz/casavoz/internal/store"
)

// MessageStore implements store.MessageStore backed by Postgres.
// The messages table is append-only; rows are never updated or deleted.
type MessageStore struct {
	db *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Append(ctx context.Context, entry *store.MessageLogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages
			(id, tenant_id, direction, message_body, category, ai_response, needs_landlord_attention, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.TenantID, entry.Direction, entry.Body,
		entry.Category, entry.ReplyText, entry.NeedsAttention, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append message log entry: %w", err)
	}
	return nil
}
