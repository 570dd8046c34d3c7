package appointment

import (
	"context"
	"time"

	"github.com/medplus/clinic-scheduler/internal/models"
)

// Party selects which side of an appointment a conflict query looks at.
type Party int

const (
	PartyDoctor Party = iota + 1
	PartyPatient
)

type PartyLookup interface {
	GetDoctor(ctx context.Context, id uint) (*models.User, error)
	GetPatient(ctx context.Context, id uint) (*models.User, error)
}

type Repository interface {
	// -------- Transaction --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ExistsConflict reports whether partyID has an appointment at exactly
	// at whose status is not in excluded. excludeID 0 excludes nothing.
	ExistsConflict(
		ctx context.Context,
		party Party,
		partyID uint,
		at time.Time,
		excluded []Status,
		excludeID uint,
	) (bool, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Queries --------
	ListByPatient(
		ctx context.Context,
		patientID uint,
	) ([]models.Appointment, error)

	ListByPatientInRange(
		ctx context.Context,
		patientID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	ListByDoctor(
		ctx context.Context,
		doctorID uint,
	) ([]models.Appointment, error)

	ListByDoctorInRange(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	ListUpcomingByDoctor(
		ctx context.Context,
		doctorID uint,
		after time.Time,
		limit int,
	) ([]models.Appointment, error)

	ListInRange(
		ctx context.Context,
		from time.Time,
		to time.Time,
		statuses []Status,
	) ([]models.Appointment, error)

	ListAll(
		ctx context.Context,
	) ([]models.Appointment, error)
}
