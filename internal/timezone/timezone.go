package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const (
	// DateTimeLayout is the local date-time format used at the HTTP boundary.
	DateTimeLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Clock returns the current instant. Use cases receive one so tests can pin
// "now".
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

// ParseDateTime parses a boundary date-time in loc. Seconds are optional.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, loc)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", s, loc)
}

// display is set once at startup; nil keeps each value's own location.
var display *time.Location

// UseLocation makes FormatDateTime render in loc. Rows read back from
// Postgres carry the driver's location, not the clinic's.
func UseLocation(loc *time.Location) {
	display = loc
}

func FormatDateTime(t time.Time) string {
	if display != nil {
		t = t.In(display)
	}
	return t.Format(DateTimeLayout)
}

// DayBounds returns [00:00:00, 23:59:59] of the given day in its location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
	return start, end
}
