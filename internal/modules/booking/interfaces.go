package booking

import (
	"context"

	"carservice/internal/domain"
)

// ScheduleLookup returns a branch's operating window for a weekday
// (0 = Sunday), or nil when the branch is closed that day.
type ScheduleLookup interface {
	GetSchedule(ctx context.Context, branchID int64, dayOfWeek int) (*domain.BranchSchedule, error)
}

type ServiceCatalog interface {
	FindMissing(ctx context.Context, ids []int64) ([]int64, error)
}

type BranchDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type VehicleRegistry interface {
	IsOwnedBy(ctx context.Context, vehicleID, userID int64) (bool, error)
}

type EmployeeDirectory interface {
	IsTechnicianAtBranch(ctx context.Context, employeeID, branchID int64) (bool, error)
}

// AppointmentStore is the persistence the booking flow needs.
type AppointmentStore interface {
	BookedTimes(ctx context.Context, branchID int64, date string) ([]string, error)
	ExistsAt(ctx context.Context, branchID int64, date, clock string) (bool, error)
	CreateWithServices(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Appointment, error)
	ListByBranchAndDate(ctx context.Context, branchID int64, date string) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error
	AssignTechnician(ctx context.Context, id, technicianID int64) error
	Delete(ctx context.Context, id int64) error
}
