// Package memtest holds map-backed repositories for tests. It mirrors the
// gorm repositories, including their error values.
package memtest

import (
	"context"
	"sort"
	"sync"
	"time"

	domainAppointment "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	domainAvailability "github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type Store struct {
	// txMu serializes Transaction callbacks.
	txMu sync.Mutex

	mu           sync.RWMutex
	users        map[uint]models.User
	appointments map[uint]models.Appointment
	slots        map[uint]models.AvailabilitySlot
	nextID       uint
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uint]models.User),
		appointments: make(map[uint]models.Appointment),
		slots:        make(map[uint]models.AvailabilitySlot),
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// -------- Users --------

func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) GetDoctor(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || u.Doctor == nil {
		return nil, httperr.NotFoundf("doctor_not_found", "Médico não encontrado com ID: %d", id)
	}
	return &u, nil
}

func (s *Store) GetPatient(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || u.Patient == nil {
		return nil, httperr.NotFoundf("patient_not_found", "Paciente não encontrado com ID: %d", id)
	}
	return &u, nil
}

// -------- Appointments --------

func (s *Store) Transaction(_ context.Context, fn func(tx domainAppointment.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	ap.ID = s.id()
	ap.CreatedAt = now
	ap.UpdatedAt = now
	s.appointments[ap.ID] = s.strip(*ap)
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[ap.ID]; !ok {
		return httperr.NotFoundf("appointment_not_found", "Consulta não encontrada com ID: %d", ap.ID)
	}
	ap.UpdatedAt = time.Now()
	s.appointments[ap.ID] = s.strip(*ap)
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, httperr.NotFoundf("appointment_not_found", "Consulta não encontrada com ID: %d", id)
	}
	ap = s.hydrate(ap)
	return &ap, nil
}

func (s *Store) ExistsConflict(
	_ context.Context,
	party domainAppointment.Party,
	partyID uint,
	at time.Time,
	excluded []domainAppointment.Status,
	excludeID uint,
) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skip := make(map[string]bool, len(excluded))
	for _, st := range excluded {
		skip[string(st)] = true
	}

	for _, ap := range s.appointments {
		if ap.ID == excludeID || skip[ap.Status] || !ap.DateTime.Equal(at) {
			continue
		}
		if party == domainAppointment.PartyDoctor && ap.DoctorID == partyID {
			return true, nil
		}
		if party == domainAppointment.PartyPatient && ap.PatientID == partyID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListByPatient(_ context.Context, patientID uint) ([]models.Appointment, error) {
	out := s.filter(func(ap models.Appointment) bool { return ap.PatientID == patientID })
	sortByDate(out, false)
	return out, nil
}

func (s *Store) ListByPatientInRange(_ context.Context, patientID uint, from, to time.Time) ([]models.Appointment, error) {
	out := s.filter(func(ap models.Appointment) bool {
		return ap.PatientID == patientID && !ap.DateTime.Before(from) && !ap.DateTime.After(to)
	})
	sortByDate(out, true)
	return out, nil
}

func (s *Store) ListByDoctor(_ context.Context, doctorID uint) ([]models.Appointment, error) {
	out := s.filter(func(ap models.Appointment) bool { return ap.DoctorID == doctorID })
	sortByDate(out, true)
	return out, nil
}

func (s *Store) ListByDoctorInRange(_ context.Context, doctorID uint, from, to time.Time) ([]models.Appointment, error) {
	out := s.filter(func(ap models.Appointment) bool {
		return ap.DoctorID == doctorID && !ap.DateTime.Before(from) && !ap.DateTime.After(to)
	})
	sortByDate(out, true)
	return out, nil
}

func (s *Store) ListUpcomingByDoctor(_ context.Context, doctorID uint, after time.Time, limit int) ([]models.Appointment, error) {
	out := s.filter(func(ap models.Appointment) bool {
		return ap.DoctorID == doctorID && ap.DateTime.After(after)
	})
	sortByDate(out, true)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListInRange(_ context.Context, from, to time.Time, statuses []domainAppointment.Status) ([]models.Appointment, error) {
	want := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		want[string(st)] = true
	}

	out := s.filter(func(ap models.Appointment) bool {
		if ap.DateTime.Before(from) || ap.DateTime.After(to) {
			return false
		}
		return len(want) == 0 || want[ap.Status]
	})
	sortByDate(out, true)
	return out, nil
}

func (s *Store) ListAll(_ context.Context) ([]models.Appointment, error) {
	out := s.filter(func(models.Appointment) bool { return true })
	sortByDate(out, false)
	return out, nil
}

func (s *Store) filter(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Appointment
	for _, ap := range s.appointments {
		if keep(ap) {
			out = append(out, s.hydrate(ap))
		}
	}
	return out
}

func (s *Store) strip(ap models.Appointment) models.Appointment {
	ap.Patient = models.User{}
	ap.Doctor = models.User{}
	return ap
}

func (s *Store) hydrate(ap models.Appointment) models.Appointment {
	ap.Patient = s.users[ap.PatientID]
	ap.Doctor = s.users[ap.DoctorID]
	return ap
}

func sortByDate(aps []models.Appointment, asc bool) {
	sort.SliceStable(aps, func(i, j int) bool {
		if aps[i].DateTime.Equal(aps[j].DateTime) {
			return aps[i].ID < aps[j].ID
		}
		if asc {
			return aps[i].DateTime.Before(aps[j].DateTime)
		}
		return aps[i].DateTime.After(aps[j].DateTime)
	})
}

// -------- Availability --------

func (s *Store) CreateSlot(_ context.Context, slot *models.AvailabilitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exactLocked(slot.DoctorID, time.Weekday(slot.Weekday), slot.StartTime, slot.EndTime, 0) != nil {
		return domainAvailability.ErrDuplicateSlot
	}
	slot.ID = s.id()
	s.slots[slot.ID] = *slot
	return nil
}

func (s *Store) UpdateSlot(_ context.Context, slot *models.AvailabilitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[slot.ID]; !ok {
		return httperr.NotFoundf("slot_not_found", "Disponibilidade não encontrada com ID: %d", slot.ID)
	}
	if s.exactLocked(slot.DoctorID, time.Weekday(slot.Weekday), slot.StartTime, slot.EndTime, slot.ID) != nil {
		return domainAvailability.ErrDuplicateSlot
	}
	s.slots[slot.ID] = *slot
	return nil
}

func (s *Store) GetSlot(_ context.Context, id uint) (*models.AvailabilitySlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, httperr.NotFoundf("slot_not_found", "Disponibilidade não encontrada com ID: %d", id)
	}
	return &slot, nil
}

func (s *Store) FindActiveByDoctorAndDay(_ context.Context, doctorID uint, day time.Weekday) ([]models.AvailabilitySlot, error) {
	return s.slotsWhere(func(sl models.AvailabilitySlot) bool {
		return sl.Active && sl.DoctorID == doctorID && sl.Weekday == int(day)
	}), nil
}

func (s *Store) ListActiveByDoctor(_ context.Context, doctorID uint) ([]models.AvailabilitySlot, error) {
	return s.slotsWhere(func(sl models.AvailabilitySlot) bool {
		return sl.Active && sl.DoctorID == doctorID
	}), nil
}

func (s *Store) ExistsOverlap(_ context.Context, doctorID uint, day time.Weekday, start, end string, excludeID uint) (bool, error) {
	found := s.slotsWhere(func(sl models.AvailabilitySlot) bool {
		return sl.Active &&
			sl.ID != excludeID &&
			sl.DoctorID == doctorID &&
			sl.Weekday == int(day) &&
			domainAvailability.Overlaps(sl.StartTime, sl.EndTime, start, end)
	})
	return len(found) > 0, nil
}

func (s *Store) FindExactMatch(_ context.Context, doctorID uint, day time.Weekday, start, end string) (*models.AvailabilitySlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exactLocked(doctorID, day, start, end, 0), nil
}

func (s *Store) exactLocked(doctorID uint, day time.Weekday, start, end string, excludeID uint) *models.AvailabilitySlot {
	for _, sl := range s.slots {
		if sl.ID != excludeID && sl.DoctorID == doctorID && sl.Weekday == int(day) && sl.StartTime == start && sl.EndTime == end {
			found := sl
			return &found
		}
	}
	return nil
}

func (s *Store) slotsWhere(keep func(models.AvailabilitySlot) bool) []models.AvailabilitySlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AvailabilitySlot
	for _, sl := range s.slots {
		if keep(sl) {
			out = append(out, sl)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

var (
	_ domainAppointment.Repository    = (*Store)(nil)
	_ domainAppointment.PartyLookup   = (*Store)(nil)
	_ domainAvailability.Repository   = (*Store)(nil)
	_ domainAvailability.DoctorLookup = (*Store)(nil)
)
