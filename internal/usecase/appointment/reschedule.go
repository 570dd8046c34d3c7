package appointment

import (
	"context"
	"time"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/infra/lock"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

type RescheduleInput struct {
	AppointmentID uint
	DateTime      time.Time
	Notes         string

	Role    models.Role
	ActorID uint
}

type Reschedule struct {
	repo         domain.Repository
	availability AvailabilityChecker
	locker       lock.Locker
	audit        audit.Recorder
	now          timezone.Clock
}

func NewReschedule(
	repo domain.Repository,
	availability AvailabilityChecker,
	locker lock.Locker,
	audit audit.Recorder,
	now timezone.Clock,
) *Reschedule {
	return &Reschedule{
		repo:         repo,
		availability: availability,
		locker:       locker,
		audit:        audit,
		now:          now,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	if len(in.Notes) > maxTextLen {
		return nil, httperr.Validationf("notes_too_long", "As observações devem ter no máximo %d caracteres.", maxTextLen)
	}

	// --------------------------------------------------
	// 1️⃣ Consulta + status
	// --------------------------------------------------
	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(ap, in.Role, in.ActorID); err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Nova data
	// --------------------------------------------------
	if in.DateTime.Before(uc.now()) {
		return nil, domain.ErrPastDateTime
	}

	ok, err := uc.availability.IsAvailable(ctx, ap.DoctorID, in.DateTime)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotAvailable
	}

	// --------------------------------------------------
	// 3️⃣ Conflitos (exceto a própria consulta) + atualização
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, lock.AppointmentKey(ap.DoctorID, in.DateTime))
	if err != nil {
		return nil, err
	}
	defer unlock()

	previous := ap.DateTime

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := assertNoConflicts(ctx, tx, ap.DoctorID, ap.PatientID, in.DateTime, ap.ID); err != nil {
			return err
		}
		if err := domain.Reschedule(ap, in.DateTime, in.Notes); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(in.ActorID),
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"from": timezone.FormatDateTime(previous),
			"to":   timezone.FormatDateTime(ap.DateTime),
		},
	})

	return ap, nil
}
