package domain

import "time"

type Vehicle struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"index"`
	LicensePlate string    `json:"license_plate" gorm:"size:32"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Year         int       `json:"year,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
