// Package summary computes leave consumption rollups and the dashboard
// greeting. Everything here is a pure function of the leave ledger, the
// holiday calendar, and "today".
package summary

import (
	"time"

	"leavetrack/internal/leave"
)

// Summary is the per-user rollup shown on the employee dashboard.
type Summary struct {
	TotalLeavesMonth  int `json:"total_leaves_month"`
	TotalLeavesYear   int `json:"total_leaves_year"`
	LeavesYTDApproved int `json:"leaves_ytd_approved"`
	LeavesYTDLessSL   int `json:"leaves_ytd_less_sl"`
	VacationYTD       int `json:"vl_ytd"`
	SickYTD           int `json:"sl_ytd"`
	PendingLeaveDays  int `json:"pending_leaves_count"`
}

// TeamSummary collapses the same buckets over a manager's whole team.
type TeamSummary struct {
	TotalTeamLeavesMonth int `json:"total_team_leaves_month"`
	TotalTeamLeavesYear  int `json:"total_team_leaves_year"`
	TeamPendingDays      int `json:"team_pending_leaves_count"`
	TeamApprovedDays     int `json:"team_approved_leaves_count"`
	TeamVacationYTD      int `json:"team_vl_ytd"`
	TeamSickYTD          int `json:"team_sl_ytd"`
}

// DaysInclusive is the inclusive day count of a leave range:
// (end - start).days + 1, so a single-day leave counts as 1.
func DaysInclusive(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// Individual accumulates a user's full leave history into dashboard buckets.
// Month and year membership is decided by the leave's start date alone; a
// range spanning a month or year boundary is attributed entirely to the
// month and year it starts in.
func Individual(leaves []leave.Leave, today time.Time) Summary {
	var s Summary
	currentYear := today.Year()
	currentMonth := today.Month()

	for _, l := range leaves {
		days := DaysInclusive(l.StartDate, l.EndDate)

		if l.StartDate.Month() == currentMonth && l.StartDate.Year() == currentYear {
			s.TotalLeavesMonth += days
		}

		if l.StartDate.Year() == currentYear {
			s.TotalLeavesYear += days
			if l.Status == leave.StatusPending {
				s.PendingLeaveDays += days
			}
			if l.Status == leave.StatusApproved && !l.StartDate.After(today) {
				s.LeavesYTDApproved += days
			}
			if l.LeaveType != leave.TypeSick {
				s.LeavesYTDLessSL += days
			}
			if l.LeaveType == leave.TypeVacation {
				s.VacationYTD += days
			}
			if l.LeaveType == leave.TypeSick {
				s.SickYTD += days
			}
		}
	}

	return s
}

// Team aggregates over every leave belonging to a manager's reports.
func Team(leaves []leave.Leave, today time.Time) TeamSummary {
	var s TeamSummary
	currentYear := today.Year()
	currentMonth := today.Month()

	for _, l := range leaves {
		days := DaysInclusive(l.StartDate, l.EndDate)

		if l.StartDate.Month() == currentMonth && l.StartDate.Year() == currentYear {
			s.TotalTeamLeavesMonth += days
		}

		if l.StartDate.Year() == currentYear {
			s.TotalTeamLeavesYear += days
			switch l.Status {
			case leave.StatusPending:
				s.TeamPendingDays += days
			case leave.StatusApproved:
				s.TeamApprovedDays += days
			}

			switch l.LeaveType {
			case leave.TypeVacation:
				s.TeamVacationYTD += days
			case leave.TypeSick:
				s.TeamSickYTD += days
			}
		}
	}

	return s
}
