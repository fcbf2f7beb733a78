package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leavetrack/internal/holiday"
	"leavetrack/internal/leave"
	"leavetrack/internal/shared/apperror"
)

const (
	toolSuggestLeaveDates = "suggest_leave_dates"
	toolFileLeave         = "file_leave"
	toolFileSickLeave     = "file_sick_leave"

	// assistantFiledReason marks vacation requests created by the tool
	// layer, where the model supplies dates but no free-text reason.
	assistantFiledReason = "Filed via leave assistant"

	suggestCandidateDays = 90
	suggestScanDays      = 365
)

const dateLayout = "2006-01-02"

// toolCatalog is the fixed set of functions offered on the first completion
// call of every turn.
func toolCatalog() []Tool {
	return []Tool{
		{
			Type: "function",
			Function: FunctionDef{
				Name:        toolSuggestLeaveDates,
				Description: "Suggest good leave dates adjacent to an upcoming company holiday, such as a Friday before a Monday holiday.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"num_days": {
							"type": "integer",
							"description": "How many leave days the user wants to take. Defaults to 1."
						}
					}
				}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDef{
				Name:        toolFileLeave,
				Description: "File a vacation leave request for the current user over an inclusive date range.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"start_date": {
							"type": "string",
							"description": "First day of leave, formatted YYYY-MM-DD."
						},
						"end_date": {
							"type": "string",
							"description": "Last day of leave (inclusive), formatted YYYY-MM-DD."
						}
					},
					"required": ["start_date", "end_date"]
				}`),
			},
		},
		{
			Type: "function",
			Function: FunctionDef{
				Name:        toolFileSickLeave,
				Description: "File a single-day sick leave request for the current user, dated today.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"reason": {
							"type": "string",
							"description": "Short description of the illness."
						}
					},
					"required": ["reason"]
				}`),
			},
		},
	}
}

type toolFunc func(ctx context.Context, userID string, args map[string]any) string

type toolRegistry struct {
	oracle holiday.Service
	leaves leave.Service
	now    func() time.Time
}

func newToolRegistry(oracle holiday.Service, leaves leave.Service) *toolRegistry {
	return &toolRegistry{oracle: oracle, leaves: leaves, now: time.Now}
}

// dispatch resolves one tool call to its JSON result payload. It never
// returns an error: unknown names and failed executions are encoded in the
// payload so the transcript always gains a tool-result turn per call.
func (r *toolRegistry) dispatch(ctx context.Context, userID string, call ToolCall) string {
	fns := map[string]toolFunc{
		toolSuggestLeaveDates: r.suggestLeaveDates,
		toolFileLeave:         r.fileLeave,
		toolFileSickLeave:     r.fileSickLeave,
	}

	fn, ok := fns[call.Function.Name]
	if !ok {
		return errorPayload(fmt.Sprintf("Unknown function: %s", call.Function.Name))
	}

	args := map[string]any{}
	if call.Function.Arguments != "" {
		// Malformed arguments degrade to an empty payload so the tool
		// itself can report what is missing.
		_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
	}

	return fn(ctx, userID, args)
}

func (r *toolRegistry) suggestLeaveDates(ctx context.Context, _ string, args map[string]any) string {
	numDays := intArg(args, "num_days", 1)
	if numDays < 1 {
		numDays = 1
	}

	today := truncateToDay(r.now())

	nonCritical := false
	candidates, err := r.oracle.Upcoming(ctx, today, suggestCandidateDays, &nonCritical, 0)
	if err != nil {
		return errorPayload("Could not load the holiday calendar. Please try again.")
	}

	byDate := make(map[string]holiday.Holiday, len(candidates))
	for _, h := range candidates {
		byDate[h.Date.Format(dateLayout)] = h
	}

	for i := 0; i < suggestScanDays; i++ {
		day := today.AddDate(0, 0, i)
		h, ok := byDate[day.Format(dateLayout)]
		if !ok {
			continue
		}

		switch day.Weekday() {
		case time.Monday:
			end := day.AddDate(0, 0, -3)
			start := end.AddDate(0, 0, -(numDays - 1))
			// A holiday early next week would point at a Friday that has
			// already passed; keep scanning instead of suggesting it.
			if start.Before(today) {
				continue
			}
			return suggestionPayload(start, end, fmt.Sprintf(
				"Take off through Friday %s for a 4-day weekend: %s is a holiday on Monday %s.",
				end.Format(dateLayout), h.Name, day.Format(dateLayout),
			))
		case time.Friday:
			start := day.AddDate(0, 0, 3)
			end := start.AddDate(0, 0, numDays-1)
			return suggestionPayload(start, end, fmt.Sprintf(
				"Take off from Monday %s for a 4-day weekend: %s is a holiday on Friday %s.",
				start.Format(dateLayout), h.Name, day.Format(dateLayout),
			))
		}
	}

	return mustJSON(map[string]any{
		"status":  "success",
		"message": "No long-weekend leave opportunities found around upcoming holidays.",
	})
}

func (r *toolRegistry) fileLeave(ctx context.Context, userID string, args map[string]any) string {
	startDate, _ := args["start_date"].(string)
	endDate, _ := args["end_date"].(string)
	if startDate == "" || endDate == "" {
		return errorPayload("Both start_date and end_date are required, formatted YYYY-MM-DD.")
	}

	resp, err := r.leaves.Apply(ctx, userID, leave.CreateLeaveRequest{
		LeaveType: leave.TypeVacation,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    assistantFiledReason,
	})
	if err != nil {
		return errorPayload(userFacingError(err))
	}

	return mustJSON(map[string]any{
		"status":     "success",
		"message":    fmt.Sprintf("Vacation leave filed from %s to %s, pending manager approval.", resp.StartDate, resp.EndDate),
		"leave_id":   resp.ID,
		"start_date": resp.StartDate,
		"end_date":   resp.EndDate,
		"total_days": resp.TotalDays,
	})
}

func (r *toolRegistry) fileSickLeave(ctx context.Context, userID string, args map[string]any) string {
	reason, _ := args["reason"].(string)
	if reason == "" {
		reason = "Sick leave"
	}

	today := truncateToDay(r.now()).Format(dateLayout)

	resp, err := r.leaves.Apply(ctx, userID, leave.CreateLeaveRequest{
		LeaveType: leave.TypeSick,
		StartDate: today,
		EndDate:   today,
		Reason:    reason,
	})
	if err != nil {
		return errorPayload(userFacingError(err))
	}

	return mustJSON(map[string]any{
		"status":   "success",
		"message":  fmt.Sprintf("Sick leave filed for today (%s).", resp.StartDate),
		"leave_id": resp.ID,
		"date":     resp.StartDate,
	})
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

// userFacingError keeps ledger guard messages (blocked dates, invalid
// ranges) intact for the model while hiding internal failures.
func userFacingError(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
		return appErr.Message
	}
	return "Could not file the leave request. Please try again."
}

func suggestionPayload(start, end time.Time, rationale string) string {
	return mustJSON(map[string]any{
		"status": "success",
		"suggestion": map[string]any{
			"start_date": start.Format(dateLayout),
			"end_date":   end.Format(dateLayout),
			"rationale":  rationale,
		},
	})
}

func errorPayload(message string) string {
	return mustJSON(map[string]any{
		"status":  "error",
		"message": message,
	})
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return `{"status":"error","message":"internal encoding failure"}`
	}
	return string(raw)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
