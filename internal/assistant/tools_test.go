package assistant

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leavetrack/internal/holiday"

	"github.com/stretchr/testify/assert"
)

type stubOracle struct {
	holiday.Service
	holidays []holiday.Holiday
}

func (s *stubOracle) Upcoming(ctx context.Context, today time.Time, withinDays int, criticalOnly *bool, limit int) ([]holiday.Holiday, error) {
	return s.holidays, nil
}

type suggestion struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Suggestion struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Rationale string `json:"rationale"`
	} `json:"suggestion"`
}

func decodeSuggestion(t *testing.T, payload string) suggestion {
	t.Helper()
	var s suggestion
	assert.NoError(t, json.Unmarshal([]byte(payload), &s))
	return s
}

func TestSuggestLeaveDates_Scan(t *testing.T) {
	ctx := context.Background()

	// 2026-09-07 and 2026-09-28 are Mondays.
	nearMonday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	farMonday := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)

	registryAt := func(now time.Time, holidays ...holiday.Holiday) *toolRegistry {
		r := newToolRegistry(&stubOracle{holidays: holidays}, nil)
		r.now = func() time.Time { return now }
		return r
	}

	t.Run("skips a holiday whose adjacent friday already passed", func(t *testing.T) {
		sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
		r := registryAt(sunday,
			holiday.Holiday{Name: "Labor Day", Date: nearMonday},
			holiday.Holiday{Name: "Founders' Day", Date: farMonday},
		)

		got := decodeSuggestion(t, r.suggestLeaveDates(ctx, "user-1", map[string]any{}))

		assert.Equal(t, "success", got.Status)
		assert.Equal(t, "2026-09-25", got.Suggestion.StartDate)
		assert.Equal(t, "2026-09-25", got.Suggestion.EndDate)
		assert.Contains(t, got.Suggestion.Rationale, "Founders' Day")
	})

	t.Run("no suggestion when every candidate is behind us", func(t *testing.T) {
		sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
		r := registryAt(sunday, holiday.Holiday{Name: "Labor Day", Date: nearMonday})

		got := decodeSuggestion(t, r.suggestLeaveDates(ctx, "user-1", map[string]any{}))

		assert.Equal(t, "success", got.Status)
		assert.Contains(t, got.Message, "No long-weekend leave opportunities")
	})

	t.Run("friday equal to today is still a valid start", func(t *testing.T) {
		friday := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
		r := registryAt(friday, holiday.Holiday{Name: "Labor Day", Date: nearMonday})

		got := decodeSuggestion(t, r.suggestLeaveDates(ctx, "user-1", map[string]any{}))

		assert.Equal(t, "2026-09-04", got.Suggestion.StartDate)
		assert.Equal(t, "2026-09-04", got.Suggestion.EndDate)
		assert.Contains(t, got.Suggestion.Rationale, "Labor Day")
	})
}
