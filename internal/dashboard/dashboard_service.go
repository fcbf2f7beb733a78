package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leavetrack/internal/holiday"
	"leavetrack/internal/leave"
	"leavetrack/internal/summary"
	"leavetrack/internal/user"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	cacheTTL = 60 * time.Second

	recentLeavesLimit    = 5
	teamLeavesLimit      = 10
	recentDecisionsLimit = 10
)

type Service interface {
	EmployeeDashboard(ctx context.Context, userID string) (EmployeeDashboardResponse, error)
	ManagerDashboard(ctx context.Context, managerID string) (ManagerDashboardResponse, error)
	Calendar(ctx context.Context, userID string, from, to time.Time) ([]CalendarEvent, error)
}

type service struct {
	leaves   leave.Repository
	users    user.Repository
	holidays holiday.Service
	cache    *redis.Client
	sf       singleflight.Group
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	leaves leave.Repository,
	users user.Repository,
	holidays holiday.Service,
	cache *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		leaves:   leaves,
		users:    users,
		holidays: holidays,
		cache:    cache,
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) EmployeeDashboard(ctx context.Context, userID string) (EmployeeDashboardResponse, error) {
	key := "dashboard:employee:" + userID

	var resp EmployeeDashboardResponse
	if s.readCache(ctx, key, &resp) {
		return resp, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.buildEmployeeDashboard(ctx, userID)
	})
	if err != nil {
		return EmployeeDashboardResponse{}, err
	}

	resp = v.(EmployeeDashboardResponse)
	s.writeCache(ctx, key, resp)
	return resp, nil
}

func (s *service) buildEmployeeDashboard(ctx context.Context, userID string) (EmployeeDashboardResponse, error) {
	today := s.now()

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return EmployeeDashboardResponse{}, err
	}

	mine, err := s.leaves.FindAllByUser(ctx, userID)
	if err != nil {
		return EmployeeDashboardResponse{}, err
	}

	recent, err := s.leaves.FindRecentByUser(ctx, userID, recentLeavesLimit)
	if err != nil {
		return EmployeeDashboardResponse{}, err
	}

	var teamLeaves []leave.Leave
	if u.ManagerID != nil {
		peerIDs, err := s.users.FindTeamMemberIDs(ctx, u.ManagerID.String())
		if err != nil {
			return EmployeeDashboardResponse{}, err
		}
		peerIDs = without(peerIDs, userID)
		teamLeaves, err = s.leaves.FindRecentByUsers(ctx, peerIDs, teamLeavesLimit)
		if err != nil {
			return EmployeeDashboardResponse{}, err
		}
	}

	greeting, err := s.buildGreeting(ctx, u.Name, today)
	if err != nil {
		return EmployeeDashboardResponse{}, err
	}

	return EmployeeDashboardResponse{
		Greeting:     greeting,
		Summary:      summary.Individual(mine, today),
		RecentLeaves: leave.MapToListResponse(recent),
		TeamLeaves:   leave.MapToListResponse(teamLeaves),
	}, nil
}

func (s *service) ManagerDashboard(ctx context.Context, managerID string) (ManagerDashboardResponse, error) {
	key := "dashboard:manager:" + managerID

	var resp ManagerDashboardResponse
	if s.readCache(ctx, key, &resp) {
		return resp, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		return s.buildManagerDashboard(ctx, managerID)
	})
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	resp = v.(ManagerDashboardResponse)
	s.writeCache(ctx, key, resp)
	return resp, nil
}

func (s *service) buildManagerDashboard(ctx context.Context, managerID string) (ManagerDashboardResponse, error) {
	today := s.now()

	u, err := s.users.FindByID(ctx, managerID)
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	teamIDs, err := s.users.FindTeamMemberIDs(ctx, managerID)
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	pending, err := s.leaves.FindPendingByUsers(ctx, teamIDs)
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	decided, err := s.leaves.FindDecidedByUsers(ctx, teamIDs, recentDecisionsLimit)
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	all, err := s.leaves.FindAllByUsers(ctx, teamIDs)
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	greeting, err := s.buildGreeting(ctx, u.Name, today)
	if err != nil {
		return ManagerDashboardResponse{}, err
	}

	return ManagerDashboardResponse{
		Greeting:         greeting,
		Summary:          summary.Team(all, today),
		PendingApprovals: leave.MapToListResponse(pending),
		RecentDecisions:  leave.MapToListResponse(decided),
	}, nil
}

func (s *service) Calendar(ctx context.Context, userID string, from, to time.Time) ([]CalendarEvent, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := []string{userID}
	switch {
	case u.ManagerID != nil:
		peerIDs, err := s.users.FindTeamMemberIDs(ctx, u.ManagerID.String())
		if err != nil {
			return nil, err
		}
		ids = appendUnique(ids, peerIDs)
	default:
		teamIDs, err := s.users.FindTeamMemberIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		ids = appendUnique(ids, teamIDs)
	}

	leaves, err := s.leaves.FindInRangeByUsers(ctx, ids, from, to)
	if err != nil {
		return nil, err
	}

	members, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID.String()] = m.Name
	}

	events := make([]CalendarEvent, 0, len(leaves))
	for _, l := range leaves {
		if l.Status == leave.StatusRejected {
			continue
		}
		name := names[l.UserID.String()]
		if name == "" {
			name = "Unknown"
		}
		events = append(events, CalendarEvent{
			ID:        l.ID.String(),
			Title:     fmt.Sprintf("%s - %s", name, l.LeaveType),
			Start:     l.StartDate.Format("2006-01-02"),
			End:       l.EndDate.AddDate(0, 0, 1).Format("2006-01-02"),
			Status:    l.Status,
			LeaveType: l.LeaveType,
		})
	}

	// Holidays and critical days show as background events across the
	// requested range.
	windowDays := int(to.Sub(from).Hours() / 24)
	holidays, err := s.holidays.Upcoming(ctx, from, windowDays, nil, 0)
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		title := h.Name
		if h.IsCritical {
			title += " (Critical Day)"
		}
		events = append(events, CalendarEvent{
			ID:      h.ID.String(),
			Title:   title,
			Start:   h.Date.Format("2006-01-02"),
			End:     h.Date.AddDate(0, 0, 1).Format("2006-01-02"),
			Display: "background",
		})
	}
	return events, nil
}

func (s *service) buildGreeting(ctx context.Context, name string, today time.Time) (summary.Greeting, error) {
	nonCritical := false
	upcoming, err := s.holidays.Upcoming(ctx, today, summary.GreetingLookaheadDays, &nonCritical, 2)
	if err != nil {
		return summary.Greeting{}, err
	}
	return summary.BuildGreeting(name, upcoming, today), nil
}

func (s *service) readCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("dashboard cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *service) writeCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appendUnique(ids, more []string) []string {
	seen := make(map[string]struct{}, len(ids)+len(more))
	for _, v := range ids {
		seen[v] = struct{}{}
	}
	for _, v := range more {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			ids = append(ids, v)
		}
	}
	return ids
}
