package appointment

import (
	"strings"
	"time"

	"github.com/medplus/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, reason string, by models.Role) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	next, err := CancellationStatusFor(by)
	if err != nil {
		return err
	}

	ap.Status = string(next)
	ap.CancelReason = reason
	return nil
}

// Reschedule moves ap in place. Notes are replaced only when non-blank.
func Reschedule(ap *models.Appointment, at time.Time, notes string) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.DateTime = at
	ap.Status = string(StatusRescheduled)
	if strings.TrimSpace(notes) != "" {
		ap.Notes = notes
	}
	ap.CancelReason = ""
	return nil
}

// SetStatus is the administrative override; no transition guard.
func SetStatus(ap *models.Appointment, s Status) {
	ap.Status = string(s)
}
