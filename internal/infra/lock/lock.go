package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/medplus/clinic-scheduler/internal/timezone"
)

// Locker serializes work on a key. The returned func releases the lock and
// is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// AppointmentKey identifies one doctor time slot.
func AppointmentKey(doctorID uint, at time.Time) string {
	return fmt.Sprintf("appointment:%d:%s", doctorID, timezone.FormatDateTime(at))
}
