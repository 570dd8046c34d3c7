package availability

import (
	"context"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
)

// DeactivateSlot is the logical delete; rows are kept and can be
// reactivated through UpdateSlot.
type DeactivateSlot struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewDeactivateSlot(
	repo domain.Repository,
	audit audit.Recorder,
) *DeactivateSlot {
	return &DeactivateSlot{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeactivateSlot) Execute(
	ctx context.Context,
	slotID uint,
	ownerID uint,
) error {

	slot, err := uc.repo.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if ownerID != 0 && slot.DoctorID != ownerID {
		return domain.ErrSlotNotOwned
	}

	slot.Active = false
	if err := uc.repo.UpdateSlot(ctx, slot); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(slot.DoctorID),
		Action:   "availability_deactivated",
		Entity:   "availability_slot",
		EntityID: audit.Ptr(slot.ID),
	})
	return nil
}
