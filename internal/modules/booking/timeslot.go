package booking

import "time"

// TimeSlot is one bookable window of the day. Start and End are offsets from
// midnight; Display is the label shown to customers.
type TimeSlot struct {
	Start   time.Duration
	End     time.Duration
	Display string
}

func (s TimeSlot) StartClock() string { return formatClock(s.Start) }
func (s TimeSlot) EndClock() string   { return formatClock(s.End) }

// contains reports whether t falls in [Start, End).
func (s TimeSlot) contains(t time.Duration) bool {
	return t >= s.Start && t < s.End
}

func slot(startH, endH int, display string) TimeSlot {
	return TimeSlot{
		Start:   time.Duration(startH) * time.Hour,
		End:     time.Duration(endH) * time.Hour,
		Display: display,
	}
}

// catalog is ordered by start and never mutated after init.
var catalog = []TimeSlot{
	slot(7, 9, "07:00-09:00"),
	slot(10, 12, "10:00-12:00"),
	slot(13, 15, "13:00-15:00"),
	slot(15, 17, "15:00-17:00"),
	slot(17, 19, "17:00-19:00"),
}

// Slots returns a copy of the catalog in start order.
func Slots() []TimeSlot {
	out := make([]TimeSlot, len(catalog))
	copy(out, catalog)
	return out
}

// DisplayFor maps a slot start ("HH:MM" or "HH:MM:SS") to its label. Unknown
// starts come back unchanged.
func DisplayFor(start string) string {
	d, err := parseClock(start)
	if err != nil {
		return start
	}
	for _, s := range catalog {
		if s.Start == d {
			return s.Display
		}
	}
	return start
}
