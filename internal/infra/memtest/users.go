package memtest

import (
	"context"
	"sort"
	"strings"
	"time"

	domainUser "github.com/medplus/clinic-scheduler/internal/domain/user"
	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

func (s *Store) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, httperr.NotFoundf("user_not_found", "Usuário não encontrado com ID: %d", id)
	}
	return cloneUser(u), nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Store) Taken(_ context.Context, field domainUser.UniqueField, value string, excludeID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == excludeID {
			continue
		}
		switch field {
		case domainUser.FieldEmail:
			if u.Email == value {
				return true, nil
			}
		case domainUser.FieldCPF:
			if u.CPF != nil && *u.CPF == value {
				return true, nil
			}
		case domainUser.FieldCRM:
			if u.Doctor != nil && u.Doctor.CRM == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Store) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	u.ID = s.id()
	u.CreatedAt = now
	u.UpdatedAt = now
	for i := range u.Roles {
		u.Roles[i].UserID = u.ID
	}
	s.users[u.ID] = *cloneUser(*u)
	return nil
}

func (s *Store) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return httperr.NotFoundf("user_not_found", "Usuário não encontrado com ID: %d", u.ID)
	}
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *cloneUser(*u)
	return nil
}

func (s *Store) List(_ context.Context, f domainUser.Filter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if f.Role != "" && !u.HasRole(f.Role) {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		if f.Specialty != "" && (u.Doctor == nil || !strings.EqualFold(u.Doctor.Specialty, f.Specialty)) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// cloneUser copies the profile pointers so callers cannot mutate stored
// state without Update.
func cloneUser(u models.User) *models.User {
	if u.Doctor != nil {
		d := *u.Doctor
		u.Doctor = &d
	}
	if u.Patient != nil {
		p := *u.Patient
		u.Patient = &p
	}
	if u.Admin != nil {
		a := *u.Admin
		u.Admin = &a
	}
	u.Roles = append([]models.UserRole(nil), u.Roles...)
	return &u
}

var _ domainUser.Repository = (*Store)(nil)
