package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leavetrack/internal/holiday"
)

// PromptLookaheadDays bounds the holiday context embedded in the system
// prompt.
const PromptLookaheadDays = 365

const systemPromptTemplate = `You are a helpful HR leave assistant for company employees.
Today's date is %s.

You can answer questions about leave policy, suggest good dates for taking
leave, and file leave requests on the user's behalf using the tools provided.
When you file anything, confirm the exact dates back to the user. Leave
requests are not allowed on critical days.

Upcoming company holidays: %s
Critical days (leave not allowed): %s`

// buildSystemPrompt renders the persona turn from the current date and the
// holiday calendar over the next year. It runs once, when a session's first
// turn seeds the transcript; the embedded date and calendar then live as
// long as the session does.
func buildSystemPrompt(ctx context.Context, oracle holiday.Service, today time.Time) (string, error) {
	entries, err := oracle.Upcoming(ctx, today, PromptLookaheadDays, nil, 0)
	if err != nil {
		return "", fmt.Errorf("load holiday context: %w", err)
	}

	var holidays, critical []string
	for _, h := range entries {
		line := fmt.Sprintf("%s (%s)", h.Name, h.Date.Format("January 02, 2006"))
		if h.IsCritical {
			critical = append(critical, line)
		} else {
			holidays = append(holidays, line)
		}
	}

	return fmt.Sprintf(systemPromptTemplate,
		today.Format("Monday, January 02, 2006"),
		joinOrNone(holidays),
		joinOrNone(critical),
	), nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None provided."
	}
	return strings.Join(items, ", ")
}
