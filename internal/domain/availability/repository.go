package availability

import (
	"context"
	"time"

	"github.com/medplus/clinic-scheduler/internal/models"
)

type DoctorLookup interface {
	GetDoctor(ctx context.Context, id uint) (*models.User, error)
}

type Repository interface {
	CreateSlot(
		ctx context.Context,
		slot *models.AvailabilitySlot,
	) error

	UpdateSlot(
		ctx context.Context,
		slot *models.AvailabilitySlot,
	) error

	GetSlot(
		ctx context.Context,
		id uint,
	) (*models.AvailabilitySlot, error)

	FindActiveByDoctorAndDay(
		ctx context.Context,
		doctorID uint,
		day time.Weekday,
	) ([]models.AvailabilitySlot, error)

	ListActiveByDoctor(
		ctx context.Context,
		doctorID uint,
	) ([]models.AvailabilitySlot, error)

	// ExistsOverlap checks active slots only. excludeID 0 excludes nothing.
	ExistsOverlap(
		ctx context.Context,
		doctorID uint,
		day time.Weekday,
		start string,
		end string,
		excludeID uint,
	) (bool, error)

	// FindExactMatch returns nil, nil when there is no match.
	FindExactMatch(
		ctx context.Context,
		doctorID uint,
		day time.Weekday,
		start string,
		end string,
	) (*models.AvailabilitySlot, error)
}
