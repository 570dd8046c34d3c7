package availability

import (
	"strings"
	"time"

	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

// StandardDuration is the fixed length of every appointment.
const StandardDuration = 30 * time.Minute

const clockLayout = "15:04"

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

func ParseWeekday(raw string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return d, nil
	}
	return 0, httperr.Validationf("invalid_weekday", "Dia da semana inválido: %s", raw)
}

func WeekdayName(d time.Weekday) string {
	return strings.ToUpper(d.String())
}

// ParseClock validates an "HH:mm" value and returns it normalized.
func ParseClock(raw string) (string, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", httperr.Validationf("invalid_time", "Horário inválido: %s (use HH:mm)", raw)
	}
	return t.Format(clockLayout), nil
}

// ValidateRange requires start to strictly precede end.
func ValidateRange(start, end string) error {
	if start >= end {
		return httperr.Validationf(
			"invalid_time_range",
			"O horário de início (%s) deve ser anterior ao horário de fim (%s).",
			start, end,
		)
	}
	return nil
}

// Overlaps is the half-open interval test on "HH:mm" values.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// Fits reports whether an appointment starting at `at` fits entirely inside
// slot. The slot's own weekday and active flag are checked too.
func Fits(slot models.AvailabilitySlot, at time.Time) bool {
	if !slot.Active || time.Weekday(slot.Weekday) != at.Weekday() {
		return false
	}

	end := at.Add(StandardDuration)
	// An appointment that would run past midnight never fits.
	if end.Day() != at.Day() {
		return false
	}

	// Compare instants so the seconds of `at` count.
	return !at.Before(ClockOn(at, slot.StartTime)) && !end.After(ClockOn(at, slot.EndTime))
}

// ClockOn places an "HH:mm" value on day's calendar date.
func ClockOn(day time.Time, hm string) time.Time {
	t, _ := time.Parse(clockLayout, hm)
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	)
}

var (
	ErrOverlap = httperr.ErrBusiness(
		httperr.KindValidation,
		"slot_overlap",
		"O horário informado conflita com outra disponibilidade ativa do médico neste dia.",
	)
	ErrDuplicateSlot = httperr.ErrBusiness(
		httperr.KindValidation,
		"slot_duplicate",
		"Já existe uma disponibilidade cadastrada com este dia e horário.",
	)
	ErrSlotNotOwned = httperr.Forbiddenf(
		"slot_not_owned",
		"Esta disponibilidade pertence a outro médico.",
	)
)
