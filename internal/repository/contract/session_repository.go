package contract

import (
	"context"

	"ai-studybot-be/pkg/workflow"
)

// SessionRepository stores live conversation state keyed by session id.
// Implementations are swappable: in-process cache for a single instance,
// Redis when several instances share sessions.
type SessionRepository interface {
	Save(ctx context.Context, conversation *workflow.Conversation) error
	Get(ctx context.Context, sessionID string) (*workflow.Conversation, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
