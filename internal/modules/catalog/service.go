package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carservice/internal/domain"
	"carservice/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrBranchNotFound   = errors.New("branch not found")
	ErrScheduleNotFound = errors.New("branch is already closed on that day")
	ErrInvalidSchedule  = errors.New("invalid schedule")
)

type BranchStore interface {
	List(ctx context.Context) ([]domain.Branch, error)
	GetByID(ctx context.Context, id int64) (*domain.Branch, error)
	UpsertSchedule(ctx context.Context, s *domain.BranchSchedule) error
	DeleteSchedule(ctx context.Context, branchID int64, dayOfWeek int) error
}

type ServiceLister interface {
	List(ctx context.Context) ([]domain.Service, error)
}

// ScheduleCache drops cached schedules after an edit.
type ScheduleCache interface {
	Invalidate(ctx context.Context, branchID int64, dayOfWeek int) error
}

type Service struct {
	branches BranchStore
	services ServiceLister
	cache    ScheduleCache
	log      *zap.Logger
}

// NewService builds the catalog service. cache may be nil when schedules are
// not cached.
func NewService(branches BranchStore, services ServiceLister, cache ScheduleCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{branches: branches, services: services, cache: cache, log: log}
}

func (s *Service) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.branches.List(ctx)
}

func (s *Service) GetBranch(ctx context.Context, id int64) (*domain.Branch, error) {
	b, err := s.branches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx)
}

// SetSchedule opens the branch on dayOfWeek (0 = Sunday) between openTime and
// closeTime. Stored times are normalized to "HH:MM:SS".
func (s *Service) SetSchedule(ctx context.Context, branchID int64, dayOfWeek int, openTime, closeTime string) (*domain.BranchSchedule, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be 0..6", ErrInvalidSchedule)
	}
	open, err := normalizeClock(openTime)
	if err != nil {
		return nil, err
	}
	closing, err := normalizeClock(closeTime)
	if err != nil {
		return nil, err
	}
	if open >= closing {
		return nil, fmt.Errorf("%w: open_time must be before close_time", ErrInvalidSchedule)
	}

	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return nil, err
	}

	sched := &domain.BranchSchedule{
		BranchID:  branchID,
		DayOfWeek: dayOfWeek,
		OpenTime:  open,
		CloseTime: closing,
	}
	if err := s.branches.UpsertSchedule(ctx, sched); err != nil {
		return nil, err
	}
	s.invalidate(ctx, branchID, dayOfWeek)

	s.log.Info("branch schedule set",
		zap.Int64("branch_id", branchID), zap.Int("day_of_week", dayOfWeek),
		zap.String("open", open), zap.String("close", closing))
	return sched, nil
}

// CloseDay removes the branch's window on dayOfWeek.
func (s *Service) CloseDay(ctx context.Context, branchID int64, dayOfWeek int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be 0..6", ErrInvalidSchedule)
	}
	if err := s.branches.DeleteSchedule(ctx, branchID, dayOfWeek); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	s.invalidate(ctx, branchID, dayOfWeek)
	return nil
}

func (s *Service) invalidate(ctx context.Context, branchID int64, dayOfWeek int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, branchID, dayOfWeek); err != nil {
		s.log.Warn("schedule cache invalidation failed",
			zap.Int64("branch_id", branchID), zap.Int("day_of_week", dayOfWeek), zap.Error(err))
	}
}

// normalizeClock accepts "HH:MM" or "HH:MM:SS". Its output sorts
// lexicographically in time order.
func normalizeClock(v string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a valid time", ErrInvalidSchedule, v)
}
