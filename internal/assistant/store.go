package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "assistant:session:"
	sessionTTL       = 12 * time.Hour
)

// ConversationStore persists per-session transcripts. Get returns a nil
// transcript (no error) when the session has no history yet.
type ConversationStore interface {
	Get(ctx context.Context, sessionID string) ([]Message, error)
	Put(ctx context.Context, sessionID string, transcript []Message) error
}

type redisConversationStore struct {
	client *redis.Client
}

func NewRedisConversationStore(client *redis.Client) ConversationStore {
	return &redisConversationStore{client: client}
}

func (s *redisConversationStore) Get(ctx context.Context, sessionID string) ([]Message, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load conversation %s: %w", sessionID, err)
	}

	var transcript []Message
	if err := json.Unmarshal(raw, &transcript); err != nil {
		// A corrupt transcript is unrecoverable; start the session over.
		return nil, nil
	}
	return transcript, nil
}

func (s *redisConversationStore) Put(ctx context.Context, sessionID string, transcript []Message) error {
	raw, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("encode conversation %s: %w", sessionID, err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("store conversation %s: %w", sessionID, err)
	}
	return nil
}
