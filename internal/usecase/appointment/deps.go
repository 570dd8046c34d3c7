package appointment

import (
	"context"
	"time"

	"github.com/medplus/clinic-scheduler/internal/notification"
)

type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, doctorID uint, at time.Time) (bool, error)
}

type Notifier interface {
	Dispatch(n notification.Notice)
}
