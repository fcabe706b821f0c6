package domain

import "time"

type EmployeeRole string

const (
	EmployeeTechnician EmployeeRole = "technician"
	EmployeeManager    EmployeeRole = "manager"
	EmployeeReception  EmployeeRole = "reception"
)

type Employee struct {
	ID        int64        `json:"id" gorm:"primaryKey"`
	UserID    *int64       `json:"user_id,omitempty"`
	BranchID  int64        `json:"branch_id" gorm:"index"`
	Name      string       `json:"name"`
	Role      EmployeeRole `json:"role" gorm:"size:32"`
	IsActive  bool         `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
