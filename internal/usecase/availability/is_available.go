package availability

import (
	"context"
	"time"

	domain "github.com/medplus/clinic-scheduler/internal/domain/availability"
)

// Checker answers whether a standard-length appointment fits inside one of
// the doctor's active slots.
type Checker struct {
	repo domain.Repository
}

func NewChecker(repo domain.Repository) *Checker {
	return &Checker{repo: repo}
}

func (c *Checker) IsAvailable(
	ctx context.Context,
	doctorID uint,
	at time.Time,
) (bool, error) {

	slots, err := c.repo.FindActiveByDoctorAndDay(ctx, doctorID, at.Weekday())
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if domain.Fits(slot, at) {
			return true, nil
		}
	}
	return false, nil
}
