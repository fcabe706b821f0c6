package repository

import (
	"context"

	"carservice/internal/domain"

	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// IsTechnicianAtBranch reports whether the employee is an active technician
// assigned to the branch.
func (r *EmployeeRepository) IsTechnicianAtBranch(ctx context.Context, employeeID, branchID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("id = ? AND branch_id = ? AND role = ? AND is_active = ?",
			employeeID, branchID, string(domain.EmployeeTechnician), true).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
