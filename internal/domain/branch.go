package domain

import "time"

type Branch struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" validate:"required"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Schedules []BranchSchedule `json:"schedules,omitempty" gorm:"foreignKey:BranchID"`
}

// BranchSchedule is the operating window of a branch on one day of the week.
// DayOfWeek follows time.Weekday: 0 is Sunday. Times are "HH:MM:SS".
type BranchSchedule struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	BranchID  int64  `json:"branch_id" gorm:"uniqueIndex:idx_branch_day"`
	DayOfWeek int    `json:"day_of_week" gorm:"uniqueIndex:idx_branch_day" validate:"gte=0,lte=6"`
	OpenTime  string `json:"open_time" gorm:"size:8"`
	CloseTime string `json:"close_time" gorm:"size:8"`
}
