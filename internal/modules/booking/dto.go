package booking

import "carservice/internal/domain"

// CreateAppointmentRequest is the booking payload. UserID comes from the
// authenticated caller, never from the body.
type CreateAppointmentRequest struct {
	ServiceIDs   []int64 `json:"service_ids" binding:"required" validate:"required,min=1,dive,gt=0"`
	BranchID     int64   `json:"branch_id" binding:"required" validate:"gt=0"`
	VehicleID    *int64  `json:"vehicle_id" validate:"omitempty,gt=0"`
	TechnicianID *int64  `json:"technician_id" validate:"omitempty,gt=0"`
	Date         string  `json:"date" binding:"required"`
	Time         string  `json:"time" binding:"required"`
	Notes        string  `json:"notes" validate:"max=1000"`
	UserID       int64   `json:"-"`
}

// ValidatedBooking is a request that passed every guard check, with date and
// time normalized to "YYYY-MM-DD" and "HH:MM:SS".
type ValidatedBooking struct {
	UserID       int64
	BranchID     int64
	VehicleID    *int64
	TechnicianID *int64
	Date         string
	Time         string
	Notes        string
	ServiceIDs   []int64
}

func (v *ValidatedBooking) Appointment() *domain.Appointment {
	return &domain.Appointment{
		UserID:       v.UserID,
		BranchID:     v.BranchID,
		VehicleID:    v.VehicleID,
		TechnicianID: v.TechnicianID,
		Date:         v.Date,
		Time:         v.Time,
		Status:       domain.AppointmentPending,
		Notes:        v.Notes,
		ServiceIDs:   append([]int64(nil), v.ServiceIDs...),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignTechnicianRequest struct {
	TechnicianID int64 `json:"technician_id" binding:"required"`
}

type TimeSlotResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Display string `json:"display"`
}

type AvailableTimesResponse struct {
	BranchID int64    `json:"branch_id"`
	Date     string   `json:"date"`
	Times    []string `json:"available_times"`
}
