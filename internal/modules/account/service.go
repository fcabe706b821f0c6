package account

import (
	"context"
	"errors"
	"strings"

	"carservice/internal/domain"
	"carservice/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type VehicleStore interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Vehicle, error)
	Create(ctx context.Context, v *domain.Vehicle) error
}

// Service exposes the caller's profile and garage. Vehicles registered here are
// the ones a booking may reference.
type Service struct {
	users    UserReader
	vehicles VehicleStore
}

func NewService(users UserReader, vehicles VehicleStore) *Service {
	return &Service{users: users, vehicles: vehicles}
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) ListVehicles(ctx context.Context, userID int64) ([]domain.Vehicle, error) {
	return s.vehicles.ListByUser(ctx, userID)
}

func (s *Service) AddVehicle(ctx context.Context, userID int64, req AddVehicleRequest) (*domain.Vehicle, error) {
	v := &domain.Vehicle{
		UserID:       userID,
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		Brand:        strings.TrimSpace(req.Brand),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
