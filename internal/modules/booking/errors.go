package booking

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrConflict                = errors.New("booking conflict")
	ErrStorage                 = errors.New("storage failure")
	ErrNotFound                = errors.New("not found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

var (
	ErrInvalidDate           = reason(ErrInvalidInput, "date must be in YYYY-MM-DD format")
	ErrInvalidTime           = reason(ErrInvalidInput, "time must be in HH:MM or HH:MM:SS format")
	ErrPastDate              = reason(ErrInvalidInput, "cannot select a past date")
	ErrPastTime              = reason(ErrInvalidInput, "cannot book a past time")
	ErrNoServices            = reason(ErrInvalidInput, "at least one service is required")
	ErrBranchNotFound        = reason(ErrInvalidInput, "branch does not exist")
	ErrVehicleNotOwned       = reason(ErrInvalidInput, "vehicle does not belong to the user")
	ErrTechnicianNotEligible = reason(ErrInvalidInput, "technician does not work at this branch")
	ErrUnknownStatus         = reason(ErrInvalidInput, "unknown appointment status")

	ErrSlotTaken = reason(ErrConflict, "a booking already exists at this exact time")

	ErrAppointmentNotFound = reason(ErrNotFound, "appointment not found")

	ErrTechnicianRequired = reason(ErrInvalidStatusTransition, "a technician must be assigned before confirming")
	ErrNotDeletable       = reason(ErrInvalidStatusTransition, "appointment can no longer be deleted")
)

// reasonError carries a user-facing message and unwraps to its category.
type reasonError struct {
	kind error
	msg  string
}

func reason(kind error, msg string) error { return &reasonError{kind: kind, msg: msg} }

func (e *reasonError) Error() string { return e.msg }
func (e *reasonError) Unwrap() error { return e.kind }

// UnknownServicesError lists requested service ids missing from the catalog.
type UnknownServicesError struct {
	IDs []int64
}

func (e *UnknownServicesError) Error() string {
	return fmt.Sprintf("unknown service ids: %v", e.IDs)
}

func (e *UnknownServicesError) Unwrap() error { return ErrInvalidInput }

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
