package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carservice/internal/domain"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// AppointmentModel is the storage row of domain.Appointment. The unique index on
// (branch_id, appointment_date, appointment_time) is what finally rejects two
// concurrent bookings of the same slot.
type AppointmentModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index"`
	BranchID     int64     `gorm:"column:branch_id;uniqueIndex:idx_appointment_slot,priority:1"`
	VehicleID    *int64    `gorm:"column:vehicle_id"`
	TechnicianID *int64    `gorm:"column:technician_id"`
	Date         string    `gorm:"column:appointment_date;size:10;uniqueIndex:idx_appointment_slot,priority:2"`
	Time         string    `gorm:"column:appointment_time;size:8;uniqueIndex:idx_appointment_slot,priority:3"`
	Status       string    `gorm:"column:status;size:16"`
	Notes        *string   `gorm:"column:notes;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (AppointmentModel) TableName() string { return "appointments" }

func toDomainAppointment(m AppointmentModel, serviceIDs []int64) *domain.Appointment {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	return &domain.Appointment{
		ID:           m.ID,
		UserID:       m.UserID,
		BranchID:     m.BranchID,
		VehicleID:    m.VehicleID,
		TechnicianID: m.TechnicianID,
		Date:         m.Date,
		Time:         m.Time,
		Status:       domain.AppointmentStatus(m.Status),
		Notes:        notes,
		ServiceIDs:   serviceIDs,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toAppointmentModel(a *domain.Appointment) AppointmentModel {
	var notes *string
	if a.Notes != "" {
		v := a.Notes
		notes = &v
	}

	return AppointmentModel{
		ID:           a.ID,
		UserID:       a.UserID,
		BranchID:     a.BranchID,
		VehicleID:    a.VehicleID,
		TechnicianID: a.TechnicianID,
		Date:         a.Date,
		Time:         a.Time,
		Status:       string(a.Status),
		Notes:        notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// BookedTimes returns the times of every appointment row for the branch and date,
// whatever its status.
func (r *AppointmentRepository) BookedTimes(ctx context.Context, branchID int64, date string) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).
		Model(&AppointmentModel{}).
		Where("branch_id = ? AND appointment_date = ?", branchID, date).
		Order("appointment_time").
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// ExistsAt reports whether any appointment occupies the exact (branch, date, time).
func (r *AppointmentRepository) ExistsAt(ctx context.Context, branchID int64, date, clock string) (bool, error) {
	return existsAt(r.db.WithContext(ctx), branchID, date, clock)
}

func existsAt(db *gorm.DB, branchID int64, date, clock string) (bool, error) {
	var cnt int64
	err := db.Model(&AppointmentModel{}).
		Where("branch_id = ? AND appointment_date = ? AND appointment_time = ?", branchID, date, clock).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// CreateWithServices inserts the appointment and one appointment_services row per
// service id in a single transaction. Nothing is persisted unless every row is.
// A slot collision, found by the in-transaction check or by the unique index,
// returns ErrSlotTaken.
func (r *AppointmentRepository) CreateWithServices(ctx context.Context, a *domain.Appointment) error {
	m := toAppointmentModel(a)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := existsAt(tx, m.BranchID, m.Date, m.Time)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}

		if err := tx.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert appointment: %w", err)
		}

		for _, serviceID := range a.ServiceIDs {
			link := domain.AppointmentService{AppointmentID: m.ID, ServiceID: serviceID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("insert appointment service %d: %w", serviceID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	*a = *toDomainAppointment(m, append([]int64(nil), a.ServiceIDs...))
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var m AppointmentModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	links, err := r.serviceIDsFor(ctx, []int64{m.ID})
	if err != nil {
		return nil, err
	}
	return toDomainAppointment(m, links[m.ID]), nil
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Appointment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []AppointmentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("appointment_date DESC, appointment_time DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.withServices(ctx, rows)
}

func (r *AppointmentRepository) ListByBranchAndDate(ctx context.Context, branchID int64, date string) ([]domain.Appointment, error) {
	var rows []AppointmentModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND appointment_date = ?", branchID, date).
		Order("appointment_time, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.withServices(ctx, rows)
}

// UpdateStatus moves the appointment from one status to another. The update is
// conditional on the current status so two staff actions cannot both win.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&AppointmentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *AppointmentRepository) AssignTechnician(ctx context.Context, id, technicianID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&AppointmentModel{}).
		Where("id = ? AND status IN ?", id, []string{
			string(domain.AppointmentPending),
			string(domain.AppointmentConfirmed),
		}).
		Updates(map[string]any{
			"technician_id": technicianID,
			"updated_at":    time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Delete removes a non-completed appointment together with its service links.
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status <> ?", id, string(domain.AppointmentCompleted)).
			Delete(&AppointmentModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var cnt int64
			if err := tx.Model(&AppointmentModel{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				return ErrNotFound
			}
			return ErrStaleStatus
		}

		return tx.Where("appointment_id = ?", id).Delete(&domain.AppointmentService{}).Error
	})
}

// CountServiceLinks returns how many services are linked to the appointment.
func (r *AppointmentRepository) CountServiceLinks(ctx context.Context, appointmentID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.AppointmentService{}).
		Where("appointment_id = ?", appointmentID).
		Count(&cnt).Error
	return cnt, err
}

func (r *AppointmentRepository) withServices(ctx context.Context, rows []AppointmentModel) ([]domain.Appointment, error) {
	ids := make([]int64, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ID)
	}
	links, err := r.serviceIDsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainAppointment(m, links[m.ID]))
	}
	return out, nil
}

func (r *AppointmentRepository) serviceIDsFor(ctx context.Context, appointmentIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(appointmentIDs))
	if len(appointmentIDs) == 0 {
		return out, nil
	}

	var links []domain.AppointmentService
	err := r.db.WithContext(ctx).
		Where("appointment_id IN ?", appointmentIDs).
		Order("appointment_id, service_id").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.AppointmentID] = append(out[l.AppointmentID], l.ServiceID)
	}
	return out, nil
}
