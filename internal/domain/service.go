package domain

import "time"

// Service is an entry of the workshop service catalog (oil change, wash, ...).
type Service struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price" validate:"gte=0"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
