package assistant_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"leavetrack/internal/assistant"
	assistanterrors "leavetrack/internal/assistant/errors"
	"leavetrack/internal/holiday"
	"leavetrack/internal/leave"

	"github.com/stretchr/testify/assert"
)

type fakeCompletionClient struct {
	configured bool
	completeFn func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error)
	requests   []assistant.CompletionRequest
}

func (f *fakeCompletionClient) Complete(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
	f.requests = append(f.requests, req)
	if f.completeFn != nil {
		return f.completeFn(ctx, req)
	}
	return assistant.Message{Role: assistant.RoleAssistant, Content: "ok"}, nil
}

func (f *fakeCompletionClient) Configured() bool {
	return f.configured
}

type fakeConversationStore struct {
	transcripts map[string][]assistant.Message
	puts        int
	getErr      error
	putErr      error
}

func newFakeStore() *fakeConversationStore {
	return &fakeConversationStore{transcripts: map[string][]assistant.Message{}}
}

func (f *fakeConversationStore) Get(ctx context.Context, sessionID string) ([]assistant.Message, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.transcripts[sessionID], nil
}

func (f *fakeConversationStore) Put(ctx context.Context, sessionID string, transcript []assistant.Message) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.transcripts[sessionID] = transcript
	return nil
}

type fakeCalendar struct {
	upcomingFn func(ctx context.Context, today time.Time, withinDays int, criticalOnly *bool, limit int) ([]holiday.Holiday, error)
}

func (f *fakeCalendar) IsBlocked(ctx context.Context, date time.Time) (bool, *holiday.Holiday, error) {
	return false, nil, nil
}

func (f *fakeCalendar) Upcoming(ctx context.Context, today time.Time, withinDays int, criticalOnly *bool, limit int) ([]holiday.Holiday, error) {
	if f.upcomingFn != nil {
		return f.upcomingFn(ctx, today, withinDays, criticalOnly, limit)
	}
	return nil, nil
}

func (f *fakeCalendar) GetAll(ctx context.Context) ([]holiday.HolidayResponse, error) {
	return nil, nil
}

func (f *fakeCalendar) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{}, nil
}

func (f *fakeCalendar) Update(ctx context.Context, id string, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	return holiday.HolidayResponse{}, nil
}

func (f *fakeCalendar) Delete(ctx context.Context, id string) error {
	return nil
}

type fakeLeaveService struct {
	applyFn func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	applied []leave.CreateLeaveRequest
}

func (f *fakeLeaveService) Apply(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	f.applied = append(f.applied, req)
	if f.applyFn != nil {
		return f.applyFn(ctx, userID, req)
	}
	return leave.LeaveResponse{
		ID:        "leave-1",
		UserID:    userID,
		LeaveType: req.LeaveType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    leave.StatusPending,
		TotalDays: 1,
	}, nil
}

func (f *fakeLeaveService) GetByID(ctx context.Context, requesterID, requesterRole, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}

func (f *fakeLeaveService) ListMine(ctx context.Context, userID string, limit int) ([]leave.LeaveResponse, error) {
	return nil, nil
}

func (f *fakeLeaveService) Approve(ctx context.Context, managerID, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}

func (f *fakeLeaveService) Reject(ctx context.Context, managerID, id, rejectionReason string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}

type assistantServiceDeps struct {
	client  *fakeCompletionClient
	store   *fakeConversationStore
	oracle  *fakeCalendar
	ledger  *fakeLeaveService
	service assistant.Service
}

func setupAssistantServiceTest(t *testing.T) *assistantServiceDeps {
	t.Helper()

	client := &fakeCompletionClient{configured: true}
	store := newFakeStore()
	oracle := &fakeCalendar{}
	ledger := &fakeLeaveService{}
	svc := assistant.NewService(client, store, oracle, ledger)

	return &assistantServiceDeps{
		client:  client,
		store:   store,
		oracle:  oracle,
		ledger:  ledger,
		service: svc,
	}
}

func todayUTC() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func TestAssistantService_Chat(t *testing.T) {
	ctx := context.Background()
	userID := "7f9c5a1e-0000-4000-8000-000000000001"
	sessionID := userID + ":browser-1"

	t.Run("negative not configured", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)
		deps.client.configured = false

		_, err := deps.service.Chat(ctx, userID, sessionID, "hello")

		assert.ErrorIs(t, err, assistanterrors.ErrNotConfigured)
		assert.Empty(t, deps.client.requests)
	})

	t.Run("negative empty message", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		_, err := deps.service.Chat(ctx, userID, sessionID, "   ")

		assert.ErrorIs(t, err, assistanterrors.ErrEmptyMessage)
		assert.Empty(t, deps.client.requests)
	})

	t.Run("direct reply without tool calls", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			return assistant.Message{
				Role:    assistant.RoleAssistant,
				Content: "You have 5 vacation days left.",
			}, nil
		}

		reply, err := deps.service.Chat(ctx, userID, sessionID, "How many days do I have?")

		assert.NoError(t, err)
		assert.Equal(t, "You have 5 vacation days left.", reply)

		// one completion round, with the catalog offered
		assert.Len(t, deps.client.requests, 1)
		assert.Len(t, deps.client.requests[0].Tools, 3)
		assert.Equal(t, "auto", deps.client.requests[0].ToolChoice)

		// transcript: system, user, assistant. exactly one assistant turn
		transcript := deps.store.transcripts[sessionID]
		assert.Len(t, transcript, 3)
		assert.Equal(t, assistant.RoleSystem, transcript[0].Role)
		assert.Equal(t, assistant.RoleUser, transcript[1].Role)
		assert.Equal(t, "How many days do I have?", transcript[1].Content)
		assert.Equal(t, assistant.RoleAssistant, transcript[2].Role)
		assert.Equal(t, "You have 5 vacation days left.", transcript[2].Content)
	})

	t.Run("system prompt seeded once and reused", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		deps.oracle.upcomingFn = func(ctx context.Context, today time.Time, withinDays int, criticalOnly *bool, limit int) ([]holiday.Holiday, error) {
			assert.Equal(t, assistant.PromptLookaheadDays, withinDays)
			assert.Nil(t, criticalOnly)
			return []holiday.Holiday{
				{Name: "Independence Day", Date: todayUTC().AddDate(0, 0, 20)},
				{Name: "Year-End Freeze", Date: todayUTC().AddDate(0, 0, 40), IsCritical: true},
			}, nil
		}

		_, err := deps.service.Chat(ctx, userID, sessionID, "hi")
		assert.NoError(t, err)

		transcript := deps.store.transcripts[sessionID]
		assert.Equal(t, assistant.RoleSystem, transcript[0].Role)
		assert.Contains(t, transcript[0].Content, "Independence Day")
		assert.Contains(t, transcript[0].Content, "Year-End Freeze")

		_, err = deps.service.Chat(ctx, userID, sessionID, "another question")
		assert.NoError(t, err)

		transcript = deps.store.transcripts[sessionID]
		assert.Len(t, transcript, 5)
		assert.Equal(t, assistant.RoleSystem, transcript[0].Role)
		assert.Equal(t, assistant.RoleUser, transcript[3].Role)
	})

	t.Run("file_sick_leave round trip", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)
		today := todayUTC().Format("2006-01-02")

		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			if len(deps.client.requests) == 1 {
				return assistant.Message{
					Role: assistant.RoleAssistant,
					ToolCalls: []assistant.ToolCall{{
						ID:   "call_1",
						Type: "function",
						Function: assistant.ToolCallFunction{
							Name:      "file_sick_leave",
							Arguments: `{"reason":"fever"}`,
						},
					}},
				}, nil
			}
			return assistant.Message{
				Role:    assistant.RoleAssistant,
				Content: "I've filed your sick leave for today. Feel better!",
			}, nil
		}

		reply, err := deps.service.Chat(ctx, userID, sessionID, "I'm sick today")

		assert.NoError(t, err)
		assert.Equal(t, "I've filed your sick leave for today. Feel better!", reply)

		// exactly one ledger write, sick category, start=end=today
		assert.Len(t, deps.ledger.applied, 1)
		assert.Equal(t, leave.TypeSick, deps.ledger.applied[0].LeaveType)
		assert.Equal(t, today, deps.ledger.applied[0].StartDate)
		assert.Equal(t, today, deps.ledger.applied[0].EndDate)
		assert.Equal(t, "fever", deps.ledger.applied[0].Reason)

		// the second completion call saw the correlated success result and
		// no tool catalog
		assert.Len(t, deps.client.requests, 2)
		second := deps.client.requests[1]
		assert.Empty(t, second.Tools)
		last := second.Messages[len(second.Messages)-1]
		assert.Equal(t, assistant.RoleTool, last.Role)
		assert.Equal(t, "call_1", last.ToolCallID)
		assert.Contains(t, last.Content, `"status":"success"`)
	})

	t.Run("unknown tool yields error result without failing the turn", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			if len(deps.client.requests) == 1 {
				return assistant.Message{
					Role: assistant.RoleAssistant,
					ToolCalls: []assistant.ToolCall{{
						ID:       "call_x",
						Type:     "function",
						Function: assistant.ToolCallFunction{Name: "make_coffee", Arguments: `{}`},
					}},
				}, nil
			}
			return assistant.Message{Role: assistant.RoleAssistant, Content: "I can't do that."}, nil
		}

		reply, err := deps.service.Chat(ctx, userID, sessionID, "make me a coffee")

		assert.NoError(t, err)
		assert.Equal(t, "I can't do that.", reply)

		second := deps.client.requests[1]
		last := second.Messages[len(second.Messages)-1]
		assert.Equal(t, assistant.RoleTool, last.Role)
		assert.Equal(t, "call_x", last.ToolCallID)
		assert.Contains(t, last.Content, "Unknown function: make_coffee")
	})

	t.Run("malformed arguments degrade instead of aborting", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			if len(deps.client.requests) == 1 {
				return assistant.Message{
					Role: assistant.RoleAssistant,
					ToolCalls: []assistant.ToolCall{{
						ID:       "call_bad",
						Type:     "function",
						Function: assistant.ToolCallFunction{Name: "file_leave", Arguments: `{not json`},
					}},
				}, nil
			}
			return assistant.Message{Role: assistant.RoleAssistant, Content: "Something went wrong with the dates."}, nil
		}

		_, err := deps.service.Chat(ctx, userID, sessionID, "file my leave")

		assert.NoError(t, err)
		assert.Empty(t, deps.ledger.applied)

		last := deps.client.requests[1].Messages[len(deps.client.requests[1].Messages)-1]
		assert.Contains(t, last.Content, `"status":"error"`)
		assert.Contains(t, last.Content, "start_date and end_date are required")
	})

	t.Run("upstream failure does not persist the transcript", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			return assistant.Message{}, errors.New("upstream 500")
		}

		_, err := deps.service.Chat(ctx, userID, sessionID, "hello")

		assert.ErrorIs(t, err, assistanterrors.ErrAssistantUnavailable)
		assert.Equal(t, 0, deps.store.puts)
	})

	t.Run("end to end suggest then file", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		today := todayUTC()
		// place a non-critical holiday on the next Monday at least a week out
		monday := today.AddDate(0, 0, 7)
		for monday.Weekday() != time.Monday {
			monday = monday.AddDate(0, 0, 1)
		}
		friday := monday.AddDate(0, 0, -3).Format("2006-01-02")

		deps.oracle.upcomingFn = func(ctx context.Context, _ time.Time, withinDays int, criticalOnly *bool, limit int) ([]holiday.Holiday, error) {
			if criticalOnly != nil && !*criticalOnly {
				return []holiday.Holiday{{Name: "Founders' Day", Date: monday}}, nil
			}
			return []holiday.Holiday{{Name: "Founders' Day", Date: monday}}, nil
		}

		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			if len(deps.client.requests) == 1 {
				return assistant.Message{
					Role: assistant.RoleAssistant,
					ToolCalls: []assistant.ToolCall{
						{
							ID:       "call_suggest",
							Type:     "function",
							Function: assistant.ToolCallFunction{Name: "suggest_leave_dates", Arguments: `{"num_days":1}`},
						},
						{
							ID:   "call_file",
							Type: "function",
							Function: assistant.ToolCallFunction{
								Name:      "file_leave",
								Arguments: fmt.Sprintf(`{"start_date":%q,"end_date":%q}`, friday, friday),
							},
						},
					},
				}, nil
			}
			return assistant.Message{
				Role:    assistant.RoleAssistant,
				Content: "Done! I filed your vacation for " + friday + ".",
			}, nil
		}

		reply, err := deps.service.Chat(ctx, userID, sessionID, "I want a vacation around the next holiday")

		assert.NoError(t, err)
		assert.Contains(t, reply, friday)

		// exactly one vacation application with the suggested dates
		assert.Len(t, deps.ledger.applied, 1)
		assert.Equal(t, leave.TypeVacation, deps.ledger.applied[0].LeaveType)
		assert.Equal(t, friday, deps.ledger.applied[0].StartDate)
		assert.Equal(t, friday, deps.ledger.applied[0].EndDate)

		// tool results appended in call order, each correlated
		second := deps.client.requests[1]
		n := len(second.Messages)
		suggestResult := second.Messages[n-2]
		fileResult := second.Messages[n-1]
		assert.Equal(t, "call_suggest", suggestResult.ToolCallID)
		assert.Equal(t, "call_file", fileResult.ToolCallID)

		var payload struct {
			Status     string `json:"status"`
			Suggestion struct {
				StartDate string `json:"start_date"`
				EndDate   string `json:"end_date"`
				Rationale string `json:"rationale"`
			} `json:"suggestion"`
		}
		assert.NoError(t, json.Unmarshal([]byte(suggestResult.Content), &payload))
		assert.Equal(t, "success", payload.Status)
		assert.Equal(t, friday, payload.Suggestion.StartDate)
		assert.True(t, strings.Contains(payload.Suggestion.Rationale, "4-day weekend"))
	})

	t.Run("ledger rejection surfaces as tool error not turn failure", func(t *testing.T) {
		deps := setupAssistantServiceTest(t)

		deps.ledger.applyFn = func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{}, errors.New("insert failed")
		}
		deps.client.completeFn = func(ctx context.Context, req assistant.CompletionRequest) (assistant.Message, error) {
			if len(deps.client.requests) == 1 {
				return assistant.Message{
					Role: assistant.RoleAssistant,
					ToolCalls: []assistant.ToolCall{{
						ID:       "call_1",
						Type:     "function",
						Function: assistant.ToolCallFunction{Name: "file_sick_leave", Arguments: `{"reason":"flu"}`},
					}},
				}, nil
			}
			return assistant.Message{Role: assistant.RoleAssistant, Content: "Sorry, that didn't go through."}, nil
		}

		reply, err := deps.service.Chat(ctx, userID, sessionID, "I'm sick")

		assert.NoError(t, err)
		assert.Equal(t, "Sorry, that didn't go through.", reply)

		last := deps.client.requests[1].Messages[len(deps.client.requests[1].Messages)-1]
		assert.Contains(t, last.Content, `"status":"error"`)
	})
}
