package availability

import (
	"context"
	"time"

	domainAppointment "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AppointmentReader interface {
	ListByDoctorInRange(ctx context.Context, doctorID uint, from, to time.Time) ([]models.Appointment, error)
}

// FreeTimes lists bookable start times for a doctor on one date.
type FreeTimes struct {
	doctors      domain.DoctorLookup
	slots        domain.Repository
	appointments AppointmentReader
	now          timezone.Clock
}

func NewFreeTimes(
	doctors domain.DoctorLookup,
	slots domain.Repository,
	appointments AppointmentReader,
	now timezone.Clock,
) *FreeTimes {
	return &FreeTimes{
		doctors:      doctors,
		slots:        slots,
		appointments: appointments,
		now:          now,
	}
}

func (uc *FreeTimes) Execute(
	ctx context.Context,
	doctorID uint,
	date time.Time,
) ([]TimeSlot, error) {

	if _, err := uc.doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	slots, err := uc.slots.FindActiveByDoctorAndDay(ctx, doctorID, date.Weekday())
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := timezone.DayBounds(date)
	booked, err := uc.appointments.ListByDoctorInRange(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(domainAppointment.ConflictExcluded))
	for _, s := range domainAppointment.ConflictExcluded {
		excluded[string(s)] = true
	}

	taken := make(map[int64]bool, len(booked))
	for _, ap := range booked {
		if !excluded[ap.Status] {
			taken[ap.DateTime.Unix()] = true
		}
	}

	now := uc.now()
	out := []TimeSlot{}

	for _, slot := range slots {
		slotStart := domain.ClockOn(dayStart, slot.StartTime)
		slotEnd := domain.ClockOn(dayStart, slot.EndTime)

		for cur := slotStart; !cur.Add(domain.StandardDuration).After(slotEnd); cur = cur.Add(domain.StandardDuration) {
			if cur.Before(now) || taken[cur.Unix()] {
				continue
			}
			out = append(out, TimeSlot{
				Start: cur.Format(timezone.ClockLayout),
				End:   cur.Add(domain.StandardDuration).Format(timezone.ClockLayout),
			})
		}
	}

	return out, nil
}
