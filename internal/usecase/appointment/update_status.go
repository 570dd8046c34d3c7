package appointment

import (
	"context"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/models"
)

// UpdateStatus is the administrative override: any status to any status.
type UpdateStatus struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewUpdateStatus(
	repo domain.Repository,
	audit audit.Recorder,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	appointmentID uint,
	status domain.Status,
	actorID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	previous := ap.Status
	domain.SetStatus(ap, status)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(actorID),
		Action:   "appointment_status_updated",
		Entity:   "appointment",
		EntityID: audit.Ptr(ap.ID),
		Metadata: map[string]any{
			"from": previous,
			"to":   ap.Status,
		},
	})

	return ap, nil
}
