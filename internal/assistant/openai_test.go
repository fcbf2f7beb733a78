package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leavetrack/internal/assistant"

	"github.com/stretchr/testify/assert"
)

func TestOpenAIClient_Configured(t *testing.T) {
	assert.False(t, assistant.NewOpenAIClient("", "").Configured())
	assert.False(t, assistant.NewOpenAIClient("sk-test", "").Configured())
	assert.True(t, assistant.NewOpenAIClient("sk-test", "gpt-4o-mini").Configured())
}

func TestOpenAIClient_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("success with direct content", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{
						"message":       map[string]any{"role": "assistant", "content": "Hello there."},
						"finish_reason": "stop",
					},
				},
			})
		}))
		defer server.Close()

		client := assistant.NewOpenAIClient("sk-test", "gpt-4o-mini", assistant.WithEndpoint(server.URL))

		msg, err := client.Complete(ctx, assistant.CompletionRequest{
			Messages: []assistant.Message{
				{Role: assistant.RoleSystem, Content: "You are helpful."},
				{Role: assistant.RoleUser, Content: "hi"},
			},
			ToolChoice:  "auto",
			Temperature: 0.2,
			MaxTokens:   100,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Hello there.", msg.Content)
		assert.Empty(t, msg.ToolCalls)

		assert.Equal(t, "gpt-4o-mini", captured["model"])
		assert.Equal(t, "auto", captured["tool_choice"])
		assert.Len(t, captured["messages"], 2)
	})

	t.Run("success with tool calls and empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{
						"message": map[string]any{
							"role":    "assistant",
							"content": "",
							"tool_calls": []map[string]any{
								{
									"id":   "call_1",
									"type": "function",
									"function": map[string]any{
										"name":      "file_sick_leave",
										"arguments": `{"reason":"fever"}`,
									},
								},
							},
						},
						"finish_reason": "tool_calls",
					},
				},
			})
		}))
		defer server.Close()

		client := assistant.NewOpenAIClient("sk-test", "gpt-4o-mini", assistant.WithEndpoint(server.URL))

		msg, err := client.Complete(ctx, assistant.CompletionRequest{
			Messages: []assistant.Message{{Role: assistant.RoleUser, Content: "I'm sick"}},
		})

		assert.NoError(t, err)
		assert.Len(t, msg.ToolCalls, 1)
		assert.Equal(t, "call_1", msg.ToolCalls[0].ID)
		assert.Equal(t, "file_sick_leave", msg.ToolCalls[0].Function.Name)
	})

	t.Run("negative api error envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
			})
		}))
		defer server.Close()

		client := assistant.NewOpenAIClient("sk-test", "gpt-4o-mini", assistant.WithEndpoint(server.URL))

		_, err := client.Complete(ctx, assistant.CompletionRequest{
			Messages: []assistant.Message{{Role: assistant.RoleUser, Content: "hi"}},
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rate_limit_error")
		assert.Contains(t, err.Error(), "slow down")
	})

	t.Run("negative empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		client := assistant.NewOpenAIClient("sk-test", "gpt-4o-mini", assistant.WithEndpoint(server.URL))

		_, err := client.Complete(ctx, assistant.CompletionRequest{
			Messages: []assistant.Message{{Role: assistant.RoleUser, Content: "hi"}},
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})

	t.Run("negative missing credentials", func(t *testing.T) {
		client := assistant.NewOpenAIClient("", "")

		_, err := client.Complete(ctx, assistant.CompletionRequest{
			Messages: []assistant.Message{{Role: assistant.RoleUser, Content: "hi"}},
		})

		assert.Error(t, err)
	})
}
