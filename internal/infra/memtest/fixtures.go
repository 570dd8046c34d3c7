package memtest

import "github.com/medplus/clinic-scheduler/internal/models"

func (s *Store) AddDoctor(name, crm, specialty string) models.User {
	return s.AddUser(models.User{
		Name:   name,
		Email:  crm + "@clinic.test",
		Active: true,
		Roles:  []models.UserRole{{Role: models.RoleDoctor}},
		Doctor: &models.DoctorProfile{CRM: crm, Specialty: specialty},
	})
}

func (s *Store) AddPatient(name, email string) models.User {
	return s.AddUser(models.User{
		Name:    name,
		Email:   email,
		Active:  true,
		Roles:   []models.UserRole{{Role: models.RolePatient}},
		Patient: &models.PatientProfile{},
	})
}

func (s *Store) SetActive(userID uint, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[userID]
	u.Active = active
	s.users[userID] = u
}
