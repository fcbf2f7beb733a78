package assistant_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leavetrack/internal/assistant"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisConversationStore(t *testing.T) {
	ctx := context.Background()
	sessionID := "user-1:browser-1"
	key := "assistant:session:" + sessionID

	transcript := []assistant.Message{
		{Role: assistant.RoleSystem, Content: "You are helpful."},
		{Role: assistant.RoleUser, Content: "hi"},
		{Role: assistant.RoleAssistant, Content: "Hello!"},
	}
	raw, err := json.Marshal(transcript)
	assert.NoError(t, err)

	t.Run("get returns stored transcript", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := assistant.NewRedisConversationStore(client)

		mock.ExpectGet(key).SetVal(string(raw))

		got, err := store.Get(ctx, sessionID)

		assert.NoError(t, err)
		assert.Equal(t, transcript, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get on missing session returns empty without error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := assistant.NewRedisConversationStore(client)

		mock.ExpectGet(key).RedisNil()

		got, err := store.Get(ctx, sessionID)

		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get on corrupt payload restarts the session", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := assistant.NewRedisConversationStore(client)

		mock.ExpectGet(key).SetVal("{not valid json")

		got, err := store.Get(ctx, sessionID)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put stores with expiry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := assistant.NewRedisConversationStore(client)

		mock.ExpectSet(key, raw, 12*time.Hour).SetVal("OK")

		err := store.Put(ctx, sessionID, transcript)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
