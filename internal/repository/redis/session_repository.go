package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-studybot-be/internal/repository/contract"
	"ai-studybot-be/pkg/workflow"

	goredis "github.com/redis/go-redis/v9"
)

const sessionTTL = 1 * time.Hour

// SessionRepository keeps conversations in Redis as JSON blobs, so multiple
// server instances can pick up the same session.
type SessionRepository struct {
	client *goredis.Client
}

func NewSessionRepository(url string) (contract.SessionRepository, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &SessionRepository{client: client}, nil
}

func sessionKey(sessionID string) string {
	return "studybot:session:" + sessionID
}

func (r *SessionRepository) Save(ctx context.Context, conversation *workflow.Conversation) error {
	data, err := json.Marshal(conversation)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	return r.client.Set(ctx, sessionKey(conversation.ID), data, sessionTTL).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*workflow.Conversation, bool, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var conversation workflow.Conversation
	if err := json.Unmarshal(data, &conversation); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conversation, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}
