package memory

import (
	"context"
	"time"

	"ai-studybot-be/internal/repository/contract"
	"ai-studybot-be/pkg/workflow"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() contract.SessionRepository {
	// Sessions idle for an hour are dropped; expired items are purged
	// every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctx context.Context, conversation *workflow.Conversation) error {
	r.cache.Set(conversation.ID, conversation, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*workflow.Conversation, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*workflow.Conversation), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
