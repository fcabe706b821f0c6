package booking

import "time"

// ShopLocation is the fixed UTC+07:00 offset every "now" comparison uses,
// independent of the host time zone.
var ShopLocation = time.FixedZone("UTC+07:00", 7*60*60)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns t. Useful in tests and replays.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

func shopNow(c Clock) time.Time {
	return c.Now().In(ShopLocation)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseDate parses "YYYY-MM-DD" as midnight in ShopLocation.
func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, ShopLocation)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// parseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	for _, layout := range []string{timeLayout, shortTimeLayout} {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second, nil
	}
	return 0, ErrInvalidTime
}

func formatClock(d time.Duration) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format(timeLayout)
}
