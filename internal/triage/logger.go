package triage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/casavoz/casavoz/internal/store"
)

// InteractionLogger appends one message-log entry per handled exchange.
type InteractionLogger struct {
	messages store.MessageStore
}

func NewInteractionLogger(messages store.MessageStore) *InteractionLogger {
	return &InteractionLogger{messages: messages}
}

// Log persists the inbound message together with its classified reply.
// A write failure is returned for observability; the caller must not let it
// affect the reply already computed.
func (l *InteractionLogger) Log(ctx context.Context, tenantID uuid.UUID, body string, reply StructuredReply) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("new log entry id: %w", err)
	}

	return l.messages.Append(ctx, &store.MessageLogEntry{
		ID:             id,
		TenantID:       tenantID,
		Direction:      store.DirectionIncoming,
		Body:           body,
		Category:       string(reply.Category),
		ReplyText:      reply.Message,
		NeedsAttention: reply.NeedsAttention,
		CreatedAt:      time.Now().UTC(),
	})
}
