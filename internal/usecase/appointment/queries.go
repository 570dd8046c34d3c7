package appointment

import (
	"context"
	"time"

	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

const maxUpcoming = 50

// Queries groups the read-only appointment listings.
type Queries struct {
	parties domain.PartyLookup
	repo    domain.Repository
}

func NewQueries(
	parties domain.PartyLookup,
	repo domain.Repository,
) *Queries {
	return &Queries{
		parties: parties,
		repo:    repo,
	}
}

// ListByPatient returns newest first.
func (q *Queries) ListByPatient(ctx context.Context, patientID uint) ([]models.Appointment, error) {
	if _, err := q.parties.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	return q.repo.ListByPatient(ctx, patientID)
}

// ListByPatientInRange returns [from, to] soonest first.
func (q *Queries) ListByPatientInRange(
	ctx context.Context,
	patientID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	if to.Before(from) {
		return nil, httperr.Validationf("invalid_range", "O fim do período deve ser posterior ao início.")
	}
	if _, err := q.parties.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	return q.repo.ListByPatientInRange(ctx, patientID, from, to)
}

// ListByDoctor returns soonest first.
func (q *Queries) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error) {
	if _, err := q.parties.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	return q.repo.ListByDoctor(ctx, doctorID)
}

func (q *Queries) ListByDoctorInRange(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	if to.Before(from) {
		return nil, httperr.Validationf("invalid_range", "O fim do período deve ser posterior ao início.")
	}
	return q.repo.ListByDoctorInRange(ctx, doctorID, from, to)
}

// ListByDoctorOnDate covers 00:00:00 through 23:59:59 of date.
func (q *Queries) ListByDoctorOnDate(
	ctx context.Context,
	doctorID uint,
	date time.Time,
) ([]models.Appointment, error) {

	start, end := timezone.DayBounds(date)
	return q.repo.ListByDoctorInRange(ctx, doctorID, start, end)
}

func (q *Queries) ListUpcomingByDoctor(
	ctx context.Context,
	doctorID uint,
	after time.Time,
	limit int,
) ([]models.Appointment, error) {

	if limit <= 0 || limit > maxUpcoming {
		limit = 5
	}
	return q.repo.ListUpcomingByDoctor(ctx, doctorID, after, limit)
}

func (q *Queries) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return q.repo.ListAll(ctx)
}

func (q *Queries) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	return q.repo.GetAppointment(ctx, id)
}
