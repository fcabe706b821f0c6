package domain

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// CanTransitionTo checks the status graph only. Confirming additionally
// requires an assigned technician; see Appointment.CanTransitionTo.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentPending:
		return next == AppointmentConfirmed || next == AppointmentCancelled
	case AppointmentConfirmed:
		return next == AppointmentCompleted || next == AppointmentCancelled
	default:
		return false
	}
}

// Appointment is a customer's visit to a branch at a catalog slot.
// Date is "YYYY-MM-DD", Time is "HH:MM:SS", both in the shop's local offset (UTC+07:00).
type Appointment struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	BranchID     int64             `json:"branch_id"`
	VehicleID    *int64            `json:"vehicle_id,omitempty"`
	TechnicianID *int64            `json:"technician_id,omitempty"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Status       AppointmentStatus `json:"status"`
	Notes        string            `json:"notes,omitempty"`
	ServiceIDs   []int64           `json:"service_ids"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if !a.Status.CanTransitionTo(next) {
		return false
	}
	if next == AppointmentConfirmed && a.TechnicianID == nil {
		return false
	}
	return true
}

// AppointmentService links an appointment to one catalog service.
type AppointmentService struct {
	AppointmentID int64 `json:"appointment_id" gorm:"primaryKey;autoIncrement:false"`
	ServiceID     int64 `json:"service_id" gorm:"primaryKey;autoIncrement:false"`
}

func (AppointmentService) TableName() string { return "appointment_services" }
