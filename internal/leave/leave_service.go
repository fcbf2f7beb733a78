package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"leavetrack/internal/events"
	"leavetrack/internal/holiday"
	leaveerrors "leavetrack/internal/leave/errors"
	"leavetrack/internal/messaging/kafka"
	"leavetrack/internal/rbac"
	"leavetrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	TypeVacation    = "VACATION"
	TypeSick        = "SICK"
	TypeBereavement = "BEREAVEMENT"
	TypeUnpaid      = "UNPAID"
)

// Oracle is the read-only calendar lookup the ledger consults before
// accepting a request.
type Oracle interface {
	IsBlocked(ctx context.Context, date time.Time) (bool, *holiday.Holiday, error)
}

var _ Oracle = (holiday.Service)(nil)

type Service interface {
	// Apply is the single ledger-level guard: every entry point that files
	// leave, human or assistant, goes through it.
	Apply(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error)
	// GetByID is scoped to the requester: the applicant, their manager,
	// and admins may read a leave; anyone else is denied.
	GetByID(ctx context.Context, requesterID, requesterRole, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, userID string, limit int) ([]LeaveResponse, error)
	Approve(ctx context.Context, managerID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, managerID, id, rejectionReason string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	oracle Oracle
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, oracle Oracle, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, oracle, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	oracle Oracle,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		oracle: oracle,
		outbox: outboxRepo,
		logger: l,
	}
}

func (s *service) Apply(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("apply leave requested",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, startDate, endDate, err := validateApplyRequest(userID, req)
	if err != nil {
		s.logger.Warn("apply leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// Scan every day of the inclusive range against the calendar. A single
	// blocked day rejects the whole request.
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		blocked, entry, err := s.oracle.IsBlocked(ctx, d)
		if err != nil {
			s.logger.Error("apply leave calendar check failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if blocked {
			s.logger.Warn("apply leave blocked date",
				zap.String("user_id", userID),
				zap.String("date", d.Format("2006-01-02")),
				zap.String("holiday", entry.Name),
			)
			return LeaveResponse{}, leaveerrors.NewBlockedDate(d.Format("2006-01-02"), entry.Name, entry.IsCritical)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l := &Leave{
		ID:        uuid.New(),
		UserID:    userUUID,
		LeaveType: req.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    StatusPending,
	}
	if req.DocumentPath != "" {
		l.DocumentPath = &req.DocumentPath
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.writeOutbox(ctx, tx, rid, l.ID.String(), events.LeaveRequestedEvent{
		EventType:  events.LeaveRequestedEventType,
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		UserID:     userID,
		LeaveType:  l.LeaveType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		OccurredAt: time.Now().UTC(),
	}, events.LeaveRequestedEventType); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", userID),
		zap.String("leave_type", l.LeaveType),
	)

	return MapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, requesterID, requesterRole, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	// The reason fields carry sensitive HR detail, so the read is scoped
	// to the applicant, their manager, and admins.
	if requesterID != l.UserID.String() && requesterRole != rbac.RoleAdmin {
		manages, err := s.repo.IsManagerOf(ctx, requesterID, l.UserID.String())
		if err != nil {
			s.logger.Error("get leave manager check failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !manages {
			s.logger.Warn("get leave access denied",
				zap.String("leave_id", id),
				zap.String("requester_id", requesterID),
			)
			return LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
		}
	}

	return MapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, userID string, limit int) ([]LeaveResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	leaves, err := s.repo.FindRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return MapToListResponse(leaves), nil
}

func (s *service) Approve(ctx context.Context, managerID, id string) (LeaveResponse, error) {
	return s.decide(ctx, managerID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, managerID, id, rejectionReason string) (LeaveResponse, error) {
	if rejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.decide(ctx, managerID, id, StatusRejected, &rejectionReason)
}

// decide performs the one-way Pending -> Approved/Rejected transition.
// Decided leaves are terminal and cannot be re-decided.
func (s *service) decide(ctx context.Context, managerID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("manager_id", managerID),
		zap.String("target_status", targetStatus),
	)

	managerUUID, err := uuid.Parse(managerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	manages, err := qtx.IsManagerOf(ctx, managerID, l.UserID.String())
	if err != nil {
		s.logger.Error("decide leave manager check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !manages {
		return LeaveResponse{}, leaveerrors.ErrNotTeamManager
	}

	if l.Status != StatusPending {
		s.logger.Warn("decide leave already decided",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.ApprovedBy = &managerUUID
	l.ApprovedAt = &now
	l.RejectionReason = rejectionReason

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("decide leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	eventType := events.LeaveApprovedEventType
	if targetStatus == StatusRejected {
		eventType = events.LeaveRejectedEventType
	}
	decided := events.LeaveDecidedEvent{
		EventType:  eventType,
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		UserID:     l.UserID.String(),
		DecidedBy:  managerID,
		Status:     targetStatus,
		OccurredAt: now,
	}
	if rejectionReason != nil {
		decided.RejectionReason = *rejectionReason
	}
	if err := s.writeOutbox(ctx, tx, rid, l.ID.String(), decided, eventType); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return MapToResponse(*l), nil
}

func (s *service) writeOutbox(ctx context.Context, tx *sql.Tx, rid, leaveID string, event any, eventType string) error {
	if s.outbox == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave",
		AggregateID:   leaveID,
		EventType:     eventType,
		Topic:         events.LeaveEventsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave outbox persist failed",
			zap.String("leave_id", leaveID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func validateApplyRequest(userID string, req CreateLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidUserID
	}
	if !isValidLeaveType(req.LeaveType) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return userUUID, startDate, endDate, nil
}

func isValidLeaveType(t string) bool {
	switch t {
	case TypeVacation, TypeSick, TypeBereavement, TypeUnpaid:
		return true
	default:
		return false
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// TotalDays is the inclusive day count of a leave range.
func TotalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func MapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		UserID:       l.UserID.String(),
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		TotalDays:    TotalDays(l.StartDate, l.EndDate),
		Reason:       l.Reason,
		DocumentPath: l.DocumentPath,
		Status:       l.Status,
		AppliedAt:    l.AppliedAt.Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func MapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = MapToResponse(l)
	}
	return resp
}
