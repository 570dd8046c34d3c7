package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/infra/lock"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/notification"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

const maxTextLen = 500

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	PatientID uint
	DoctorID  uint
	DateTime  time.Time
	Notes     string
	Online    bool

	// ActorID is who performed the booking (the patient or an admin).
	ActorID uint
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	parties      domain.PartyLookup
	repo         domain.Repository
	availability AvailabilityChecker
	locker       lock.Locker
	notifier     Notifier
	audit        audit.Recorder
	now          timezone.Clock

	onlineLinkBase string
}

func NewBook(
	parties domain.PartyLookup,
	repo domain.Repository,
	availability AvailabilityChecker,
	locker lock.Locker,
	notifier Notifier,
	audit audit.Recorder,
	now timezone.Clock,
	onlineLinkBase string,
) *Book {
	return &Book{
		parties:        parties,
		repo:           repo,
		availability:   availability,
		locker:         locker,
		notifier:       notifier,
		audit:          audit,
		now:            now,
		onlineLinkBase: strings.TrimRight(onlineLinkBase, "/"),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	if len(in.Notes) > maxTextLen {
		return nil, httperr.Validationf("notes_too_long", "As observações devem ter no máximo %d caracteres.", maxTextLen)
	}

	// --------------------------------------------------
	// 1️⃣ Paciente e médico
	// --------------------------------------------------
	patient, err := uc.parties.GetPatient(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	doctor, err := uc.parties.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Ativos
	// --------------------------------------------------
	if !doctor.Active {
		return nil, httperr.Validationf("doctor_inactive", "O médico %s não está ativo.", doctor.Name)
	}
	if !patient.Active {
		return nil, httperr.Validationf("patient_inactive", "O paciente %s não está ativo.", patient.Name)
	}

	// --------------------------------------------------
	// 3️⃣ Data no futuro
	// --------------------------------------------------
	if in.DateTime.Before(uc.now()) {
		return nil, domain.ErrPastDateTime
	}

	// --------------------------------------------------
	// 4️⃣ Disponibilidade do médico
	// --------------------------------------------------
	ok, err := uc.availability.IsAvailable(ctx, doctor.ID, in.DateTime)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotAvailable
	}

	// --------------------------------------------------
	// 5️⃣ Conflitos + criação (lock por médico/horário)
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, lock.AppointmentKey(doctor.ID, in.DateTime))
	if err != nil {
		return nil, err
	}
	defer unlock()

	ap := &models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		DateTime:  in.DateTime,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}
	if in.Online && uc.onlineLinkBase != "" {
		ap.OnlineLink = uc.onlineLinkBase + "/" + uuid.NewString()
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := assertNoConflicts(ctx, tx, ap.DoctorID, ap.PatientID, ap.DateTime, 0); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	ap.Patient = *patient
	ap.Doctor = *doctor

	// --------------------------------------------------
	// 6️⃣ Confirmação (assíncrona) + auditoria
	// --------------------------------------------------
	uc.notifier.Dispatch(notification.Notice{
		Type:          notification.TypeBooked,
		AppointmentID: ap.ID,
		PatientEmail:  patient.Email,
		PatientName:   patient.Name,
		DoctorName:    doctor.Name,
		DateTime:      ap.DateTime,
		OnlineLink:    ap.OnlineLink,
	})

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(in.ActorID),
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"doctor_id":  ap.DoctorID,
			"patient_id": ap.PatientID,
			"date_time":  timezone.FormatDateTime(ap.DateTime),
		},
	})

	return ap, nil
}

// assertNoConflicts runs the doctor check before the patient check.
func assertNoConflicts(
	ctx context.Context,
	repo domain.Repository,
	doctorID uint,
	patientID uint,
	at time.Time,
	excludeID uint,
) error {

	busy, err := repo.ExistsConflict(ctx, domain.PartyDoctor, doctorID, at, domain.ConflictExcluded, excludeID)
	if err != nil {
		return err
	}
	if busy {
		return domain.ErrDoctorDoubleBooked
	}

	busy, err = repo.ExistsConflict(ctx, domain.PartyPatient, patientID, at, domain.ConflictExcluded, excludeID)
	if err != nil {
		return err
	}
	if busy {
		return domain.ErrPatientDoubleBooked
	}
	return nil
}
