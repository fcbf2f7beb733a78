package dashboard

import (
	"leavetrack/internal/leave"
	"leavetrack/internal/summary"
)

type EmployeeDashboardResponse struct {
	Greeting     summary.Greeting      `json:"greeting"`
	Summary      summary.Summary       `json:"summary"`
	RecentLeaves []leave.LeaveResponse `json:"recent_leaves"`
	TeamLeaves   []leave.LeaveResponse `json:"team_leaves"`
}

type ManagerDashboardResponse struct {
	Greeting         summary.Greeting      `json:"greeting"`
	Summary          summary.TeamSummary   `json:"summary"`
	PendingApprovals []leave.LeaveResponse `json:"pending_approvals"`
	RecentDecisions  []leave.LeaveResponse `json:"recent_decisions"`
}

// CalendarEvent follows the FullCalendar event shape: End is exclusive,
// so a single-day leave spans [start, start+1d). Holidays render as
// background events.
type CalendarEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status,omitempty"`
	LeaveType string `json:"leave_type,omitempty"`
	Display   string `json:"display,omitempty"`
}
