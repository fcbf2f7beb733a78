package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	assistanterrors "leavetrack/internal/assistant/errors"
	"leavetrack/internal/holiday"
	"leavetrack/internal/leave"

	"go.uber.org/zap"
)

const (
	completionTemperature = 0.2
	completionMaxTokens   = 600
)

type Service interface {
	// Chat runs one full orchestration turn: transcript load, first
	// completion, tool dispatch, second completion, transcript persist.
	Chat(ctx context.Context, userID, sessionID, message string) (string, error)
}

type service struct {
	client   CompletionClient
	store    ConversationStore
	oracle   holiday.Service
	registry *toolRegistry
	logger   *zap.Logger

	// sessions serializes turns per session so a double-submit cannot
	// interleave transcript writes.
	sessions sync.Map
	now      func() time.Time
}

func NewService(
	client CompletionClient,
	store ConversationStore,
	oracle holiday.Service,
	leaves leave.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("assistant.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assistant.service")
	}
	return &service{
		client:   client,
		store:    store,
		oracle:   oracle,
		registry: newToolRegistry(oracle, leaves),
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) Chat(ctx context.Context, userID, sessionID, message string) (string, error) {
	if s.client == nil || !s.client.Configured() {
		return "", assistanterrors.ErrNotConfigured
	}
	if strings.TrimSpace(message) == "" {
		return "", assistanterrors.ErrEmptyMessage
	}

	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	transcript, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Error("load transcript failed", zap.String("session_id", sessionID), zap.Error(err))
		return "", assistanterrors.ErrAssistantUnavailable
	}

	if len(transcript) == 0 {
		prompt, err := buildSystemPrompt(ctx, s.oracle, truncateToDay(s.now()))
		if err != nil {
			s.logger.Error("build system prompt failed", zap.Error(err))
			return "", assistanterrors.ErrAssistantUnavailable
		}
		transcript = []Message{{Role: RoleSystem, Content: prompt}}
	}

	transcript = append(transcript, Message{Role: RoleUser, Content: message})

	reply, transcript, err := s.runTurn(ctx, userID, transcript)
	if err != nil {
		// The transcript is only persisted on success, so a failed turn
		// leaves the stored conversation exactly as it was.
		s.logger.Error("orchestration turn failed", zap.String("session_id", sessionID), zap.Error(err))
		return "", assistanterrors.ErrAssistantUnavailable
	}

	if err := s.store.Put(ctx, sessionID, transcript); err != nil {
		s.logger.Error("persist transcript failed", zap.String("session_id", sessionID), zap.Error(err))
		return "", assistanterrors.ErrAssistantUnavailable
	}

	return reply, nil
}

// runTurn executes the two-phase completion protocol against the given
// transcript and returns the final reply plus the extended transcript.
func (s *service) runTurn(ctx context.Context, userID string, transcript []Message) (string, []Message, error) {
	first, err := s.client.Complete(ctx, CompletionRequest{
		Messages:    transcript,
		Tools:       toolCatalog(),
		ToolChoice:  "auto",
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", nil, err
	}

	transcript = append(transcript, first)

	if len(first.ToolCalls) == 0 {
		return first.Content, transcript, nil
	}

	for _, call := range first.ToolCalls {
		result := s.registry.dispatch(ctx, userID, call)
		s.logger.Info("tool dispatched",
			zap.String("tool", call.Function.Name),
			zap.String("call_id", call.ID),
		)
		transcript = append(transcript, Message{
			Role:       RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})
	}

	second, err := s.client.Complete(ctx, CompletionRequest{
		Messages:    transcript,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", nil, err
	}

	transcript = append(transcript, second)
	return second.Content, transcript, nil
}

func (s *service) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := s.sessions.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
