package booking

import (
	"context"
	"strings"
)

type slotChecker interface {
	ExistsAt(ctx context.Context, branchID int64, date, clock string) (bool, error)
}

// Guard validates a booking request before anything is written. Checks run in a
// fixed order and the first failure is returned.
type Guard struct {
	services  ServiceCatalog
	branches  BranchDirectory
	vehicles  VehicleRegistry
	employees EmployeeDirectory
	slots     slotChecker
	clock     Clock
}

func NewGuard(
	services ServiceCatalog,
	branches BranchDirectory,
	vehicles VehicleRegistry,
	employees EmployeeDirectory,
	slots slotChecker,
	clock Clock,
) *Guard {
	return &Guard{
		services:  services,
		branches:  branches,
		vehicles:  vehicles,
		employees: employees,
		slots:     slots,
		clock:     clock,
	}
}

func (g *Guard) ValidateAndPrepare(ctx context.Context, req CreateAppointmentRequest) (*ValidatedBooking, error) {
	// 1. services
	serviceIDs := uniqueIDs(req.ServiceIDs)
	if len(serviceIDs) == 0 {
		return nil, ErrNoServices
	}
	missing, err := g.services.FindMissing(ctx, serviceIDs)
	if err != nil {
		return nil, storageError("look up services", err)
	}
	if len(missing) > 0 {
		return nil, &UnknownServicesError{IDs: missing}
	}

	// 2. not in the past
	day, err := parseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, err
	}
	at, err := parseClock(strings.TrimSpace(req.Time))
	if err != nil {
		return nil, err
	}
	if day.Add(at).Before(shopNow(g.clock)) {
		return nil, ErrPastTime
	}

	// 3. branch
	ok, err := g.branches.Exists(ctx, req.BranchID)
	if err != nil {
		return nil, storageError("look up branch", err)
	}
	if !ok {
		return nil, ErrBranchNotFound
	}

	// 4. vehicle ownership
	if req.VehicleID != nil {
		ok, err := g.vehicles.IsOwnedBy(ctx, *req.VehicleID, req.UserID)
		if err != nil {
			return nil, storageError("look up vehicle", err)
		}
		if !ok {
			return nil, ErrVehicleNotOwned
		}
	}

	// 5. technician eligibility
	if req.TechnicianID != nil {
		ok, err := g.employees.IsTechnicianAtBranch(ctx, *req.TechnicianID, req.BranchID)
		if err != nil {
			return nil, storageError("look up technician", err)
		}
		if !ok {
			return nil, ErrTechnicianNotEligible
		}
	}

	// 6. exact slot collision
	date, clock := day.Format(dateLayout), formatClock(at)
	taken, err := g.slots.ExistsAt(ctx, req.BranchID, date, clock)
	if err != nil {
		return nil, storageError("check slot", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	return &ValidatedBooking{
		UserID:       req.UserID,
		BranchID:     req.BranchID,
		VehicleID:    req.VehicleID,
		TechnicianID: req.TechnicianID,
		Date:         date,
		Time:         clock,
		Notes:        strings.TrimSpace(req.Notes),
		ServiceIDs:   serviceIDs,
	}, nil
}

// uniqueIDs drops duplicates and keeps first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
