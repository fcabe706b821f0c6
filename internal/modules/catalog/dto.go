package catalog

import (
	"time"

	"carservice/internal/domain"
)

type ScheduleResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	Day       string `json:"day"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type BranchResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	Phone     string             `json:"phone,omitempty"`
	Schedules []ScheduleResponse `json:"schedules,omitempty"`
}

// SetScheduleRequest sets one weekday's operating window. Times accept
// "HH:MM" or "HH:MM:SS".
type SetScheduleRequest struct {
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
}

func toBranchResponse(b domain.Branch) BranchResponse {
	out := BranchResponse{
		ID:      b.ID,
		Name:    b.Name,
		Address: b.Address,
		Phone:   b.Phone,
	}
	for _, s := range b.Schedules {
		out.Schedules = append(out.Schedules, toScheduleResponse(s))
	}
	return out
}

func toScheduleResponse(s domain.BranchSchedule) ScheduleResponse {
	return ScheduleResponse{
		DayOfWeek: s.DayOfWeek,
		Day:       time.Weekday(s.DayOfWeek).String(),
		OpenTime:  s.OpenTime,
		CloseTime: s.CloseTime,
	}
}
