package domain

import "time"

type UserRole string

const (
	RoleCustomer      UserRole = "customer"
	RoleBranchManager UserRole = "branch_manager"
	RoleAdmin         UserRole = "admin"
)

// IsStaff reports whether the role may manage appointments it does not own.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleBranchManager
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Phone        string    `json:"phone" gorm:"uniqueIndex;size:32"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role" gorm:"size:32"`
	Name         string    `json:"name"`
	ZaloID       string    `json:"zalo_id,omitempty" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
