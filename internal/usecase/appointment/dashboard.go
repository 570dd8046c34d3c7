package appointment

import (
	"context"

	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

type Dashboard struct {
	AppointmentsToday int                  `json:"appointments_today"`
	PatientsToday     int                  `json:"patients_today"`
	Upcoming          []models.Appointment `json:"upcoming"`
}

type DoctorDashboard struct {
	repo domain.Repository
	now  timezone.Clock
}

func NewDoctorDashboard(
	repo domain.Repository,
	now timezone.Clock,
) *DoctorDashboard {
	return &DoctorDashboard{
		repo: repo,
		now:  now,
	}
}

// Execute skips canceled and no-show appointments in the daily counts.
func (uc *DoctorDashboard) Execute(
	ctx context.Context,
	doctorID uint,
) (*Dashboard, error) {

	now := uc.now()
	start, end := timezone.DayBounds(now)

	today, err := uc.repo.ListByDoctorInRange(ctx, doctorID, start, end)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{}
	patients := map[uint]bool{}
	for _, ap := range today {
		st := domain.Status(ap.Status)
		if st.IsCanceled() || st == domain.StatusNoShow {
			continue
		}
		out.AppointmentsToday++
		patients[ap.PatientID] = true
	}
	out.PatientsToday = len(patients)

	out.Upcoming, err = uc.repo.ListUpcomingByDoctor(ctx, doctorID, now, 5)
	if err != nil {
		return nil, err
	}
	return out, nil
}
