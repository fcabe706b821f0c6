package booking

import (
	"context"
	"errors"
	"strings"

	"carservice/internal/domain"
	"carservice/internal/repository"

	"go.uber.org/zap"
)

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID int64
	Role   domain.UserRole
}

func (a Actor) isStaff() bool { return a.Role.IsStaff() }

type Service struct {
	appointments AppointmentStore
	availability *Availability
	guard        *Guard
	employees    EmployeeDirectory
	log          *zap.Logger
}

func NewService(
	appointments AppointmentStore,
	availability *Availability,
	guard *Guard,
	employees EmployeeDirectory,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		appointments: appointments,
		availability: availability,
		guard:        guard,
		employees:    employees,
		log:          log,
	}
}

func (s *Service) TimeSlots() []TimeSlot {
	return Slots()
}

func (s *Service) AvailableTimes(ctx context.Context, branchID int64, date string) ([]string, error) {
	times, err := s.availability.AvailableSlots(ctx, branchID, strings.TrimSpace(date))
	if err != nil && errors.Is(err, ErrStorage) {
		s.log.Error("availability lookup failed",
			zap.Int64("branch_id", branchID), zap.String("date", date), zap.Error(err))
	}
	return times, err
}

// CreateAppointment validates the request and writes the appointment with its
// services atomically. The slot is re-checked inside the write transaction, so
// two concurrent requests for one slot cannot both succeed.
func (s *Service) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*domain.Appointment, error) {
	validated, err := s.guard.ValidateAndPrepare(ctx, req)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			s.log.Error("booking validation failed", zap.Int64("user_id", req.UserID), zap.Error(err))
		}
		return nil, err
	}

	a := validated.Appointment()
	if err := s.appointments.CreateWithServices(ctx, a); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.log.Info("slot taken during write",
				zap.Int64("branch_id", a.BranchID), zap.String("date", a.Date), zap.String("time", a.Time))
			return nil, ErrSlotTaken
		}
		s.log.Error("appointment write failed", zap.Int64("user_id", a.UserID), zap.Error(err))
		return nil, storageError("create appointment", err)
	}

	s.log.Info("appointment created",
		zap.Int64("appointment_id", a.ID),
		zap.Int64("branch_id", a.BranchID),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
		zap.Int("services", len(a.ServiceIDs)),
	)
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64, actor Actor) (*domain.Appointment, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.isStaff() && a.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return a, nil
}

func (s *Service) ListMyAppointments(ctx context.Context, userID int64, limit, offset int) ([]domain.Appointment, error) {
	out, err := s.appointments.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, storageError("list appointments", err)
	}
	return out, nil
}

func (s *Service) ListBranchAppointments(ctx context.Context, branchID int64, date string, actor Actor) ([]domain.Appointment, error) {
	if !actor.isStaff() {
		return nil, ErrForbidden
	}
	day, err := parseDate(strings.TrimSpace(date))
	if err != nil {
		return nil, err
	}
	out, err := s.appointments.ListByBranchAndDate(ctx, branchID, day.Format(dateLayout))
	if err != nil {
		return nil, storageError("list branch appointments", err)
	}
	return out, nil
}

// UpdateStatus applies a status transition. Customers may only cancel their own
// pending appointments; staff follow the full status graph.
func (s *Service) UpdateStatus(ctx context.Context, id int64, actor Actor, next domain.AppointmentStatus) (*domain.Appointment, error) {
	if !next.Valid() {
		return nil, ErrUnknownStatus
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.isStaff() {
		if a.UserID != actor.UserID {
			return nil, ErrForbidden
		}
		if next != domain.AppointmentCancelled {
			return nil, ErrForbidden
		}
		if a.Status != domain.AppointmentPending {
			return nil, ErrInvalidStatusTransition
		}
	}

	if !a.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}
	if !a.CanTransitionTo(next) {
		return nil, ErrTechnicianRequired
	}

	if err := s.appointments.UpdateStatus(ctx, id, a.Status, next); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, storageError("update status", err)
	}

	s.log.Info("appointment status changed",
		zap.Int64("appointment_id", id),
		zap.String("from", string(a.Status)),
		zap.String("to", string(next)),
		zap.Int64("actor_id", actor.UserID),
	)
	return s.load(ctx, id)
}

func (s *Service) AssignTechnician(ctx context.Context, id int64, actor Actor, technicianID int64) (*domain.Appointment, error) {
	if !actor.isStaff() {
		return nil, ErrForbidden
	}

	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		return nil, ErrInvalidStatusTransition
	}

	ok, err := s.employees.IsTechnicianAtBranch(ctx, technicianID, a.BranchID)
	if err != nil {
		return nil, storageError("look up technician", err)
	}
	if !ok {
		return nil, ErrTechnicianNotEligible
	}

	if err := s.appointments.AssignTechnician(ctx, id, technicianID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrInvalidStatusTransition
		}
		return nil, storageError("assign technician", err)
	}
	return s.load(ctx, id)
}

// DeleteAppointment removes an appointment. Completed appointments are kept for
// reporting and can never be deleted; customers may only delete their own
// pending ones.
func (s *Service) DeleteAppointment(ctx context.Context, id int64, actor Actor) error {
	a, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if a.Status == domain.AppointmentCompleted {
		return ErrNotDeletable
	}
	if !actor.isStaff() {
		if a.UserID != actor.UserID {
			return ErrForbidden
		}
		if a.Status != domain.AppointmentPending {
			return ErrNotDeletable
		}
	}

	if err := s.appointments.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrAppointmentNotFound
		case errors.Is(err, repository.ErrStaleStatus):
			return ErrNotDeletable
		}
		return storageError("delete appointment", err)
	}

	s.log.Info("appointment deleted", zap.Int64("appointment_id", id), zap.Int64("actor_id", actor.UserID))
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, storageError("get appointment", err)
	}
	return a, nil
}
