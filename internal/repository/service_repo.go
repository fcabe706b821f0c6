package repository

import (
	"context"

	"carservice/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	var out []domain.Service
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindMissing returns the ids, in input order, that are not active catalog services.
func (r *ServiceRepository) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Service{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}

	known := make(map[int64]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
