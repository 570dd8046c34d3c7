package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/infra/lock"
	"github.com/medplus/clinic-scheduler/internal/infra/memtest"
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/notification"
	"github.com/medplus/clinic-scheduler/internal/timezone"
	ucAvailability "github.com/medplus/clinic-scheduler/internal/usecase/availability"
)

var (
	// 2030-01-01 is a Tuesday; the next Monday is 2030-01-07.
	now        = time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	nextMonday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
)

func at(h, m int) time.Time {
	return nextMonday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type fixture struct {
	store    *memtest.Store
	audit    *memtest.AuditRecorder
	notifier *memtest.Notifier

	doctor   models.User
	patient  models.User
	patient2 models.User

	book       *Book
	cancel     *Cancel
	reschedule *Reschedule
	status     *UpdateStatus
	queries    *Queries
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memtest.NewStore()
	rec := &memtest.AuditRecorder{}
	notifier := &memtest.Notifier{}
	clock := timezone.FixedClock(now)
	locker := lock.NewKeyedMutex()
	checker := ucAvailability.NewChecker(store)

	f := &fixture{
		store:    store,
		audit:    rec,
		notifier: notifier,
		doctor:   store.AddDoctor("Carlos Souza", "CRM-123", "Cardiologia"),
		patient:  store.AddPatient("Ana Lima", "ana@example.com"),
		patient2: store.AddPatient("Bruno Dias", "bruno@example.com"),

		book:       NewBook(store, store, checker, locker, notifier, rec, clock, "https://meet.clinic.test/"),
		cancel:     NewCancel(store, rec),
		reschedule: NewReschedule(store, checker, locker, rec, clock),
		status:     NewUpdateStatus(store, rec),
		queries:    NewQueries(store, store),
	}

	require.NoError(t, store.CreateSlot(context.Background(), &models.AvailabilitySlot{
		DoctorID: f.doctor.ID, Weekday: int(time.Monday), StartTime: "09:00", EndTime: "17:00", Active: true,
	}))
	return f
}

func (f *fixture) mustBook(t *testing.T, patientID uint, when time.Time) *models.Appointment {
	t.Helper()
	ap, err := f.book.Execute(context.Background(), BookInput{
		PatientID: patientID, DoctorID: f.doctor.ID, DateTime: when, ActorID: patientID,
	})
	require.NoError(t, err)
	return ap
}

func TestBook_Success(t *testing.T) {
	f := newFixture(t)

	ap, err := f.book.Execute(context.Background(), BookInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, DateTime: at(10, 0), Notes: "dor no peito", Online: true,
	})
	require.NoError(t, err)

	assert.NotZero(t, ap.ID)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, "dor no peito", ap.Notes)
	assert.Contains(t, ap.OnlineLink, "https://meet.clinic.test/")
	assert.Equal(t, "Carlos Souza", ap.Doctor.Name)

	notices := f.notifier.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, notification.TypeBooked, notices[0].Type)
	assert.Equal(t, "ana@example.com", notices[0].PatientEmail)
	assert.Equal(t, "Carlos Souza", notices[0].DoctorName)

	assert.Equal(t, []string{"appointment_booked"}, f.audit.Actions())
}

func TestBook_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactiveDoctor := f.store.AddDoctor("Inativo", "CRM-999", "Clínica Geral")
	f.store.SetActive(inactiveDoctor.ID, false)
	inactivePatient := f.store.AddPatient("Inativa", "x@example.com")
	f.store.SetActive(inactivePatient.ID, false)

	tests := []struct {
		name string
		in   BookInput
		kind httperr.Kind
		code string
	}{
		{"unknown patient", BookInput{PatientID: 999, DoctorID: f.doctor.ID, DateTime: at(10, 0)}, httperr.KindNotFound, "patient_not_found"},
		{"unknown doctor", BookInput{PatientID: f.patient.ID, DoctorID: 999, DateTime: at(10, 0)}, httperr.KindNotFound, "doctor_not_found"},
		{"patient id is not a doctor", BookInput{PatientID: f.patient.ID, DoctorID: f.patient2.ID, DateTime: at(10, 0)}, httperr.KindNotFound, "doctor_not_found"},
		{"inactive doctor", BookInput{PatientID: f.patient.ID, DoctorID: inactiveDoctor.ID, DateTime: at(10, 0)}, httperr.KindValidation, "doctor_inactive"},
		{"inactive patient", BookInput{PatientID: inactivePatient.ID, DoctorID: f.doctor.ID, DateTime: at(10, 0)}, httperr.KindValidation, "patient_inactive"},
		{"in the past", BookInput{PatientID: f.patient.ID, DoctorID: f.doctor.ID, DateTime: now.Add(-time.Minute)}, httperr.KindValidation, "past_datetime"},
		{"outside slot", BookInput{PatientID: f.patient.ID, DoctorID: f.doctor.ID, DateTime: at(16, 45)}, httperr.KindValidation, "not_available"},
		{"wrong weekday", BookInput{PatientID: f.patient.ID, DoctorID: f.doctor.ID, DateTime: at(10, 0).AddDate(0, 0, 1)}, httperr.KindValidation, "not_available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.book.Execute(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, httperr.KindOf(err))
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}

	all, err := f.queries.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed bookings must not persist")
	assert.Empty(t, f.notifier.Notices())
}

func TestBook_SlotEndingExactlyAtAppointmentEnd(t *testing.T) {
	f := newFixture(t)
	ap := f.mustBook(t, f.patient.ID, at(16, 30))
	assert.Equal(t, at(16, 30), ap.DateTime)
}

func TestBook_DoctorDoubleBooked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustBook(t, f.patient.ID, at(10, 0))

	_, err := f.book.Execute(ctx, BookInput{PatientID: f.patient2.ID, DoctorID: f.doctor.ID, DateTime: at(10, 0)})
	require.ErrorIs(t, err, domain.ErrDoctorDoubleBooked)

	list, err := f.queries.ListByDoctorOnDate(ctx, f.doctor.ID, nextMonday)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, string(domain.StatusScheduled), list[0].Status)
}

func TestBook_PatientDoubleBooked(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddDoctor("Outra", "CRM-456", "Dermatologia")
	require.NoError(t, f.store.CreateSlot(context.Background(), &models.AvailabilitySlot{
		DoctorID: other.ID, Weekday: int(time.Monday), StartTime: "08:00", EndTime: "12:00", Active: true,
	}))

	f.mustBook(t, f.patient.ID, at(10, 0))

	_, err := f.book.Execute(context.Background(), BookInput{PatientID: f.patient.ID, DoctorID: other.ID, DateTime: at(10, 0)})
	assert.ErrorIs(t, err, domain.ErrPatientDoubleBooked)
}

func TestBook_CanceledSlotIsReusable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.mustBook(t, f.patient.ID, at(10, 0))
	_, err := f.cancel.Execute(ctx, CancelInput{AppointmentID: first.ID, Role: models.RolePatient, ActorID: f.patient.ID})
	require.NoError(t, err)

	f.mustBook(t, f.patient2.ID, at(10, 0))
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)

	var patients []models.User
	for i := 0; i < 10; i++ {
		patients = append(patients, f.store.AddPatient("P", "p@example.com"))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for _, p := range patients {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := f.book.Execute(context.Background(), BookInput{PatientID: id, DoctorID: f.doctor.ID, DateTime: at(11, 0)})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(p.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.patient.ID, at(10, 0))

	got, err := f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Reason: "viagem", Role: models.RolePatient, ActorID: f.patient.ID})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceledByPatient), got.Status)
	assert.Equal(t, "viagem", got.CancelReason)

	_, err = f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Role: models.RolePatient, ActorID: f.patient.ID})
	assert.True(t, httperr.IsBusiness(err, "already_canceled"))
}

func TestCancel_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.patient.ID, at(10, 0))

	_, err := f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Role: models.RolePatient, ActorID: f.patient2.ID})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Role: models.Role("RECEPCAO"), ActorID: 1})
	assert.True(t, httperr.IsBusiness(err, "invalid_cancel_role"))

	_, err = f.cancel.Execute(ctx, CancelInput{AppointmentID: 999, Role: models.RoleAdmin})
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = f.status.Execute(ctx, ap.ID, domain.StatusCompleted, 1)
	require.NoError(t, err)

	_, err = f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Role: models.RoleAdmin, ActorID: 1})
	assert.True(t, httperr.IsBusiness(err, "cannot_cancel_finished"))

	stored, err := f.queries.Get(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), stored.Status)
}

func TestCancel_DoctorRole(t *testing.T) {
	f := newFixture(t)
	ap := f.mustBook(t, f.patient.ID, at(10, 0))

	got, err := f.cancel.Execute(context.Background(), CancelInput{AppointmentID: ap.ID, Role: models.RoleDoctor, ActorID: f.doctor.ID})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceledByDoctor), got.Status)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.patient.ID, at(10, 0))
	ap.CancelReason = "stale"
	require.NoError(t, f.store.UpdateAppointment(ctx, ap))

	got, err := f.reschedule.Execute(ctx, RescheduleInput{AppointmentID: ap.ID, DateTime: at(14, 0), Notes: "  ", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusRescheduled), got.Status)
	assert.Equal(t, at(14, 0), got.DateTime)
	assert.Empty(t, got.CancelReason)
	assert.Empty(t, got.Notes)

	got, err = f.reschedule.Execute(ctx, RescheduleInput{AppointmentID: ap.ID, DateTime: at(15, 0), Notes: "retorno", Role: models.RoleAdmin})
	require.NoError(t, err, "rescheduled appointments stay reschedulable")
	assert.Equal(t, "retorno", got.Notes)
}

func TestReschedule_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.patient.ID, at(10, 0))
	f.mustBook(t, f.patient2.ID, at(11, 0))

	tests := []struct {
		name string
		in   RescheduleInput
		code string
	}{
		{"past", RescheduleInput{AppointmentID: ap.ID, DateTime: now.Add(-time.Hour)}, "past_datetime"},
		{"unavailable", RescheduleInput{AppointmentID: ap.ID, DateTime: at(18, 0)}, "not_available"},
		{"doctor busy", RescheduleInput{AppointmentID: ap.ID, DateTime: at(11, 0)}, "doctor_double_booked"},
		{"not owner", RescheduleInput{AppointmentID: ap.ID, DateTime: at(12, 0), Role: models.RolePatient, ActorID: f.patient2.ID}, "appointment_not_owned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reschedule.Execute(ctx, tt.in)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}

	// same time as itself is not a conflict
	_, err := f.reschedule.Execute(ctx, RescheduleInput{AppointmentID: ap.ID, DateTime: at(10, 0)})
	require.NoError(t, err)

	for _, s := range []domain.Status{domain.StatusCompleted, domain.StatusNoShow, domain.StatusCanceledByDoctor} {
		_, err := f.status.Execute(ctx, ap.ID, s, 1)
		require.NoError(t, err)

		_, err = f.reschedule.Execute(ctx, RescheduleInput{AppointmentID: ap.ID, DateTime: at(12, 0)})
		assert.True(t, httperr.IsBusiness(err, "cannot_reschedule_status"), "from %s", s)
	}
}

func TestUpdateStatus_Unconditional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.patient.ID, at(10, 0))
	_, err := f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Role: models.RoleAdmin, ActorID: 1})
	require.NoError(t, err)

	got, err := f.status.Execute(ctx, ap.ID, domain.StatusConfirmed, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)

	_, err = f.status.Execute(ctx, 999, domain.StatusConfirmed, 1)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestQueries_Ordering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.mustBook(t, f.patient.ID, at(15, 0))
	early := f.mustBook(t, f.patient.ID, at(9, 0))
	nextWeek := f.mustBook(t, f.patient.ID, at(9, 0).AddDate(0, 0, 7))

	byPatient, err := f.queries.ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{nextWeek.ID, late.ID, early.ID}, ids(byPatient))

	byDoctor, err := f.queries.ListByDoctor(ctx, f.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID, nextWeek.ID}, ids(byDoctor))

	onDate, err := f.queries.ListByDoctorOnDate(ctx, f.doctor.ID, nextMonday.Add(13*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID}, ids(onDate))

	upcoming, err := f.queries.ListUpcomingByDoctor(ctx, f.doctor.ID, at(9, 0), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{late.ID}, ids(upcoming))

	_, err = f.queries.ListByPatient(ctx, 999)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	_, err = f.queries.ListByDoctorInRange(ctx, f.doctor.ID, at(10, 0), at(9, 0))
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))
}

func TestQueries_PatientInRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.mustBook(t, f.patient.ID, at(15, 0))
	early := f.mustBook(t, f.patient.ID, at(9, 0))
	f.mustBook(t, f.patient.ID, at(9, 0).AddDate(0, 0, 7))
	f.mustBook(t, f.patient2.ID, at(10, 0))

	from, to := timezone.DayBounds(nextMonday)
	got, err := f.queries.ListByPatientInRange(ctx, f.patient.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, []uint{early.ID, late.ID}, ids(got))

	_, err = f.queries.ListByPatientInRange(ctx, f.patient.ID, to, from)
	assert.True(t, httperr.IsBusiness(err, "invalid_range"))

	_, err = f.queries.ListByPatientInRange(ctx, 999, from, to)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

func TestDoctorDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.mustBook(t, f.patient.ID, at(9, 0))
	f.mustBook(t, f.patient.ID, at(10, 0))
	f.mustBook(t, f.patient2.ID, at(11, 0))
	c := f.mustBook(t, f.patient2.ID, at(12, 0))
	_, err := f.cancel.Execute(ctx, CancelInput{AppointmentID: c.ID, Role: models.RoleAdmin, ActorID: 1})
	require.NoError(t, err)

	uc := NewDoctorDashboard(f.store, timezone.FixedClock(at(8, 0)))
	got, err := uc.Execute(ctx, f.doctor.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, got.AppointmentsToday)
	assert.Equal(t, 2, got.PatientsToday)
	require.NotEmpty(t, got.Upcoming)
	assert.Equal(t, a.ID, got.Upcoming[0].ID)
}

func TestScenario_BookConflictRescheduleCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.patient.ID, at(10, 0))
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)

	_, err := f.book.Execute(ctx, BookInput{PatientID: f.patient2.ID, DoctorID: f.doctor.ID, DateTime: at(10, 0)})
	require.ErrorIs(t, err, domain.ErrDoctorDoubleBooked)

	moved, err := f.reschedule.Execute(ctx, RescheduleInput{
		AppointmentID: ap.ID, DateTime: at(14, 0), Role: models.RolePatient, ActorID: f.patient.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRescheduled), moved.Status)

	canceled, err := f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Reason: "clinic closed", Role: models.RoleAdmin, ActorID: 1})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCanceledByAdmin), canceled.Status)
	assert.Equal(t, "clinic closed", canceled.CancelReason)

	_, err = f.cancel.Execute(ctx, CancelInput{AppointmentID: ap.ID, Role: models.RoleAdmin, ActorID: 1})
	assert.True(t, httperr.IsBusiness(err, "already_canceled"))

	assert.Equal(t, []string{
		"appointment_booked",
		"appointment_rescheduled",
		"appointment_canceled",
	}, f.audit.Actions())
}

func ids(aps []models.Appointment) []uint {
	out := make([]uint, 0, len(aps))
	for _, ap := range aps {
		out = append(out, ap.ID)
	}
	return out
}
