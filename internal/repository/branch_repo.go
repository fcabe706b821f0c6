package repository

import (
	"context"
	"errors"

	"carservice/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Branch{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *BranchRepository) GetByID(ctx context.Context, id int64) (*domain.Branch, error) {
	var b domain.Branch
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB { return db.Order("day_of_week") }).
		Where("is_active = ?", true).
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	var out []domain.Branch
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSchedule returns the branch's operating window for the weekday, or nil when
// the branch does not open that day.
func (r *BranchRepository) GetSchedule(ctx context.Context, branchID int64, dayOfWeek int) (*domain.BranchSchedule, error) {
	var s domain.BranchSchedule
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND day_of_week = ?", branchID, dayOfWeek).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpsertSchedule creates or replaces the operating window for s.BranchID on
// s.DayOfWeek.
func (r *BranchRepository) UpsertSchedule(ctx context.Context, s *domain.BranchSchedule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "branch_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time"}),
		}).
		Create(s).Error
}

// DeleteSchedule marks the branch closed on the weekday.
func (r *BranchRepository) DeleteSchedule(ctx context.Context, branchID int64, dayOfWeek int) error {
	res := r.db.WithContext(ctx).
		Where("branch_id = ? AND day_of_week = ?", branchID, dayOfWeek).
		Delete(&domain.BranchSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
