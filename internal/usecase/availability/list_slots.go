package availability

import (
	"context"
	"time"

	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type ListSlots struct {
	doctors domain.DoctorLookup
	repo    domain.Repository
}

func NewListSlots(
	doctors domain.DoctorLookup,
	repo domain.Repository,
) *ListSlots {
	return &ListSlots{
		doctors: doctors,
		repo:    repo,
	}
}

// Execute lists active slots of a doctor, optionally for one weekday.
func (uc *ListSlots) Execute(
	ctx context.Context,
	doctorID uint,
	day *time.Weekday,
) ([]models.AvailabilitySlot, error) {

	if _, err := uc.doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	if day != nil {
		return uc.repo.FindActiveByDoctorAndDay(ctx, doctorID, *day)
	}
	return uc.repo.ListActiveByDoctor(ctx, doctorID)
}

func (uc *ListSlots) Get(
	ctx context.Context,
	slotID uint,
	ownerID uint,
) (*models.AvailabilitySlot, error) {

	slot, err := uc.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if ownerID != 0 && slot.DoctorID != ownerID {
		return nil, domain.ErrSlotNotOwned
	}
	return slot, nil
}
