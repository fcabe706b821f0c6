package booking

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type bookedTimesReader interface {
	BookedTimes(ctx context.Context, branchID int64, date string) ([]string, error)
}

// Availability computes which catalog slots a branch can still take on a date.
type Availability struct {
	schedules ScheduleLookup
	booked    bookedTimesReader
	clock     Clock
	log       *zap.Logger
}

func NewAvailability(schedules ScheduleLookup, booked bookedTimesReader, clock Clock, log *zap.Logger) *Availability {
	if log == nil {
		log = zap.NewNop()
	}
	return &Availability{schedules: schedules, booked: booked, clock: clock, log: log}
}

// AvailableSlots returns the display labels of the open slots, in catalog order.
// A slot is open when it lies fully inside the branch's operating window, no
// existing appointment time falls in [start, end), and, for today, its start
// has not passed. A closed day yields an empty list, not an error.
func (a *Availability) AvailableSlots(ctx context.Context, branchID int64, date string) ([]string, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	now := shopNow(a.clock)
	today := startOfDay(now)
	if day.Before(today) {
		return nil, ErrPastDate
	}

	schedule, err := a.schedules.GetSchedule(ctx, branchID, int(day.Weekday()))
	if err != nil {
		return nil, storageError("get branch schedule", err)
	}
	if schedule == nil {
		return []string{}, nil
	}

	open, err := parseClock(schedule.OpenTime)
	if err != nil {
		return nil, storageError("parse branch open time", err)
	}
	closing, err := parseClock(schedule.CloseTime)
	if err != nil {
		return nil, storageError("parse branch close time", err)
	}

	rawBooked, err := a.booked.BookedTimes(ctx, branchID, day.Format(dateLayout))
	if err != nil {
		return nil, storageError("list booked times", err)
	}
	booked := make([]time.Duration, 0, len(rawBooked))
	for _, raw := range rawBooked {
		t, err := parseClock(raw)
		if err != nil {
			a.log.Warn("skipping unparsable appointment time",
				zap.Int64("branch_id", branchID), zap.String("date", date), zap.String("time", raw))
			continue
		}
		booked = append(booked, t)
	}

	isToday := day.Equal(today)
	out := make([]string, 0, len(catalog))
	for _, s := range catalog {
		if s.Start < open || s.End > closing {
			continue
		}
		if bookedWithin(booked, s) {
			continue
		}
		if isToday && day.Add(s.Start).Before(now) {
			continue
		}
		out = append(out, s.Display)
	}
	return out, nil
}

func bookedWithin(booked []time.Duration, s TimeSlot) bool {
	for _, t := range booked {
		if s.contains(t) {
			return true
		}
	}
	return false
}
