// Package reminder sends a notice for every active appointment of the next
// day, once a day on a cron schedule.
package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/notification"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

// activeStatuses are the ones still expected to happen.
var activeStatuses = []domain.Status{
	domain.StatusScheduled,
	domain.StatusConfirmed,
	domain.StatusRescheduled,
}

type AppointmentLister interface {
	ListInRange(ctx context.Context, from, to time.Time, statuses []domain.Status) ([]models.Appointment, error)
}

type Notifier interface {
	Dispatch(n notification.Notice)
}

type Scheduler struct {
	repo     AppointmentLister
	notifier Notifier
	now      timezone.Clock
	loc      *time.Location
	log      zerolog.Logger

	cron *cron.Cron
}

func NewScheduler(
	repo AppointmentLister,
	notifier Notifier,
	now timezone.Clock,
	loc *time.Location,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		now:      now,
		loc:      loc,
		log:      log,
		cron:     cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the job with a standard 5-field spec and starts the cron.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("reminder run failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("spec", spec).Msg("reminder scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce dispatches reminders for tomorrow and returns how many were sent.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	tomorrow := s.now().In(s.loc).AddDate(0, 0, 1)
	from, to := timezone.DayBounds(tomorrow)

	aps, err := s.repo.ListInRange(ctx, from, to, activeStatuses)
	if err != nil {
		return 0, err
	}

	for _, ap := range aps {
		s.notifier.Dispatch(notification.Notice{
			Type:          notification.TypeReminder,
			AppointmentID: ap.ID,
			PatientEmail:  ap.Patient.Email,
			PatientName:   ap.Patient.Name,
			DoctorName:    ap.Doctor.Name,
			DateTime:      ap.DateTime.In(s.loc),
			OnlineLink:    ap.OnlineLink,
		})
	}

	s.log.Info().Int("count", len(aps)).Str("day", from.Format(timezone.DateLayout)).Msg("reminders dispatched")
	return len(aps), nil
}
