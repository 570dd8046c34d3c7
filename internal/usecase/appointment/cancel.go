package appointment

import (
	"context"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type CancelInput struct {
	AppointmentID uint
	Reason        string

	// Role decides the resulting CANCELADA_* status.
	Role models.Role
	// ActorID must own the appointment when Role is patient or doctor.
	ActorID uint
}

type Cancel struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewCancel(
	repo domain.Repository,
	audit audit.Recorder,
) *Cancel {
	return &Cancel{
		repo:  repo,
		audit: audit,
	}
}

func (uc *Cancel) Execute(
	ctx context.Context,
	in CancelInput,
) (*models.Appointment, error) {

	if len(in.Reason) > maxTextLen {
		return nil, httperr.Validationf("reason_too_long", "O motivo deve ter no máximo %d caracteres.", maxTextLen)
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := assertOwner(ap, in.Role, in.ActorID); err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, in.Reason, in.Role); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(in.ActorID),
		Action:   "appointment_canceled",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"status": ap.Status,
			"reason": ap.CancelReason,
		},
	})

	return ap, nil
}

// assertOwner restricts patients and doctors to their own appointments.
// Other roles pass and are judged by the caller.
func assertOwner(ap *models.Appointment, role models.Role, actorID uint) error {
	switch role {
	case models.RolePatient:
		if ap.PatientID != actorID {
			return domain.ErrNotOwner
		}
	case models.RoleDoctor:
		if ap.DoctorID != actorID {
			return domain.ErrNotOwner
		}
	}
	return nil
}
