package holiday

import (
	"context"
	"errors"
	"time"

	holidayerrors "leavetrack/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type Service interface {
	// IsBlocked reports whether entry exists on the exact date. Both plain
	// holidays and critical days block new leave requests.
	IsBlocked(ctx context.Context, date time.Time) (bool, *Holiday, error)
	// Upcoming returns entries in [today, today+withinDays], date ascending.
	// criticalOnly filters by the critical flag when non-nil.
	Upcoming(ctx context.Context, today time.Time, withinDays int, criticalOnly *bool, limit int) ([]Holiday, error)

	GetAll(ctx context.Context) ([]HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) IsBlocked(ctx context.Context, date time.Time) (bool, *Holiday, error) {
	h, err := s.repo.FindByDate(ctx, truncateToDay(date))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, h, nil
}

func (s *service) Upcoming(ctx context.Context, today time.Time, withinDays int, criticalOnly *bool, limit int) ([]Holiday, error) {
	from := truncateToDay(today)
	to := from.AddDate(0, 0, withinDays)
	return s.repo.FindInRange(ctx, from, to, criticalOnly, limit)
}

func (s *service) GetAll(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(holidays), nil
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	h := &Holiday{
		ID:         uuid.New(),
		Date:       date,
		Name:       req.Name,
		IsCritical: req.IsCritical,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("create holiday date conflict", zap.String("date", req.Date))
			return HolidayResponse{}, holidayerrors.ErrHolidayDateTaken
		}
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.logger.Info("create holiday success",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
		zap.Bool("is_critical", h.IsCritical),
	)
	return mapToResponse(*h), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, holidayerrors.ErrHolidayNotFound
		}
		return HolidayResponse{}, err
	}

	h.Date = date
	h.Name = req.Name
	h.IsCritical = req.IsCritical

	if err := s.repo.Update(ctx, h); err != nil {
		if isUniqueViolation(err) {
			return HolidayResponse{}, holidayerrors.ErrHolidayDateTaken
		}
		s.logger.Error("update holiday persist failed", zap.String("holiday_id", id), zap.Error(err))
		return HolidayResponse{}, err
	}

	return mapToResponse(*h), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, holidayerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:         h.ID.String(),
		Date:       h.Date.Format("2006-01-02"),
		Name:       h.Name,
		IsCritical: h.IsCritical,
	}
}

func mapToListResponse(holidays []Holiday) []HolidayResponse {
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp
}
