package availability

import (
	"context"
	"time"

	"github.com/medplus/clinic-scheduler/internal/audit"
	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type UpdateSlotInput struct {
	SlotID uint
	// OwnerID restricts the update to slots of this doctor. Zero skips the
	// check (administrative callers).
	OwnerID uint

	Weekday time.Weekday
	Start   string
	End     string
	Active  bool
}

type UpdateSlot struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewUpdateSlot(
	repo domain.Repository,
	audit audit.Recorder,
) *UpdateSlot {
	return &UpdateSlot{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateSlot) Execute(
	ctx context.Context,
	in UpdateSlotInput,
) (*models.AvailabilitySlot, error) {

	slot, err := uc.repo.GetSlot(ctx, in.SlotID)
	if err != nil {
		return nil, err
	}
	if in.OwnerID != 0 && slot.DoctorID != in.OwnerID {
		return nil, domain.ErrSlotNotOwned
	}

	day, start, end, err := normalize(in.Weekday, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	// An inactive slot may sit on top of active ones.
	if in.Active {
		overlap, err := uc.repo.ExistsOverlap(ctx, slot.DoctorID, day, start, end, slot.ID)
		if err != nil {
			return nil, err
		}
		if overlap {
			return nil, domain.ErrOverlap
		}

		dup, err := uc.repo.FindExactMatch(ctx, slot.DoctorID, day, start, end)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != slot.ID && dup.Active {
			return nil, domain.ErrDuplicateSlot
		}
	}

	slot.Weekday = int(day)
	slot.StartTime = start
	slot.EndTime = end
	slot.Active = in.Active

	if err := uc.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ptr(slot.DoctorID),
		Action:   "availability_updated",
		Entity:   "availability_slot",
		EntityID: audit.Ptr(slot.ID),
	})

	return slot, nil
}
