package booking

import (
	"context"
	"time"

	"carservice/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Fixed reference points in the shop's offset. 2030-01-07 is a Monday.
var (
	sundayNoon    = time.Date(2030, 1, 6, 12, 0, 0, 0, ShopLocation)
	mondayDate    = "2030-01-07"
	mondayMorning = time.Date(2030, 1, 7, 11, 30, 0, 0, ShopLocation)
)

type MockScheduleLookup struct {
	mock.Mock
}

func (m *MockScheduleLookup) GetSchedule(ctx context.Context, branchID int64, dayOfWeek int) (*domain.BranchSchedule, error) {
	args := m.Called(ctx, branchID, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BranchSchedule), args.Error(1)
}

type MockServiceCatalog struct {
	mock.Mock
}

func (m *MockServiceCatalog) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockBranchDirectory struct {
	mock.Mock
}

func (m *MockBranchDirectory) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockVehicleRegistry struct {
	mock.Mock
}

func (m *MockVehicleRegistry) IsOwnedBy(ctx context.Context, vehicleID, userID int64) (bool, error) {
	args := m.Called(ctx, vehicleID, userID)
	return args.Bool(0), args.Error(1)
}

type MockEmployeeDirectory struct {
	mock.Mock
}

func (m *MockEmployeeDirectory) IsTechnicianAtBranch(ctx context.Context, employeeID, branchID int64) (bool, error) {
	args := m.Called(ctx, employeeID, branchID)
	return args.Bool(0), args.Error(1)
}

type MockAppointmentStore struct {
	mock.Mock
}

func (m *MockAppointmentStore) BookedTimes(ctx context.Context, branchID int64, date string) ([]string, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAppointmentStore) ExistsAt(ctx context.Context, branchID int64, date, clock string) (bool, error) {
	args := m.Called(ctx, branchID, date, clock)
	return args.Bool(0), args.Error(1)
}

func (m *MockAppointmentStore) CreateWithServices(ctx context.Context, a *domain.Appointment) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockAppointmentStore) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Appointment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) ListByBranchAndDate(ctx context.Context, branchID int64, date string) ([]domain.Appointment, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *MockAppointmentStore) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockAppointmentStore) AssignTechnician(ctx context.Context, id, technicianID int64) error {
	args := m.Called(ctx, id, technicianID)
	return args.Error(0)
}

func (m *MockAppointmentStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func schedule(openAt, closeAt string) *domain.BranchSchedule {
	return &domain.BranchSchedule{BranchID: 1, DayOfWeek: 1, OpenTime: openAt, CloseTime: closeAt}
}

func int64Ptr(v int64) *int64 { return &v }
